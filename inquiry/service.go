// Package inquiry implements the buyer-to-owner inquiry lifecycle:
// pending → contacted → scheduled → completed, with cancelled reachable
// from any open state. Guarded transitions notify the counterparty;
// notification failures never roll back a persisted transition.
package inquiry

import (
	"context"
	"log/slog"
	"time"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/notify"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the storage surface for inquiries. The Mongo implementation
// lives in store.go; tests substitute a fake.
type Store interface {
	PropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	HasOpenInquiry(ctx context.Context, propertyID, inquirerID primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, inquiry *models.Inquiry) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	Update(ctx context.Context, inquiry *models.Inquiry) error
	List(ctx context.Context, query bson.M, skip, limit int64) ([]models.Inquiry, int64, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type CreateRequest struct {
	PropertyID        string                `json:"propertyId" validate:"required"`
	Type              string                `json:"type" validate:"required,oneof=visit call email general"`
	Message           string                `json:"message" validate:"required,min=10,max=1000"`
	ContactPreference string                `json:"contactPreference" validate:"omitempty,oneof=phone email whatsapp"`
	PreferredTime     *models.PreferredTime `json:"preferredTime,omitempty"`
}

type ScheduleRequest struct {
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Location string `json:"location"`
	Type     string `json:"type" validate:"required,oneof=physical virtual"`
}

type Service struct {
	store     Store
	notifier  notify.Gateway
	log       *slog.Logger
	clientURL string
}

func NewService(store Store, notifier notify.Gateway, log *slog.Logger, clientURL string) *Service {
	return &Service{store: store, notifier: notifier, log: log, clientURL: clientURL}
}

// Create opens a new inquiry in pending status. The inquirer must not be
// the property owner, and at most one open inquiry may exist per
// (inquirer, property) pair — checked up front and backed by the storage
// uniqueness constraint for concurrent creators.
func (s *Service) Create(ctx context.Context, inquirerID primitive.ObjectID, req CreateRequest) (*models.Inquiry, error) {
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return nil, apperr.Validation("propertyId", "invalid property id")
	}

	property, err := s.store.PropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if property.Owner == inquirerID {
		return nil, apperr.Validation("propertyId", "Cannot create inquiry for your own property")
	}

	exists, err := s.store.HasOpenInquiry(ctx, propertyID, inquirerID)
	if err != nil {
		return nil, apperr.Dependency("failed to check existing inquiries", err)
	}
	if exists {
		return nil, apperr.Conflict("You already have an active inquiry for this property")
	}

	contactPref := req.ContactPreference
	if contactPref == "" {
		contactPref = models.ContactPrefPhone
	}

	now := time.Now()
	inq := &models.Inquiry{
		ID:       primitive.NewObjectID(),
		Property: propertyID,
		Inquirer: inquirerID,
		// Owner is captured here and stays fixed even if the property
		// changes hands later.
		PropertyOwner:     property.Owner,
		Type:              req.Type,
		Message:           req.Message,
		ContactPreference: contactPref,
		PreferredTime:     req.PreferredTime,
		Status:            models.InquiryStatusPending,
		Open:              true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.Insert(ctx, inq); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, inq, property)
	return inq, nil
}

// Respond records the owner's response and moves the inquiry to
// contacted. Only the property owner may respond, and only while the
// inquiry is pending or contacted.
func (s *Service) Respond(ctx context.Context, actorID primitive.ObjectID, inquiryID primitive.ObjectID, message string) (*models.Inquiry, error) {
	if message == "" {
		return nil, apperr.Validation("message", "Response message is required")
	}

	inq, err := s.store.ByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if inq.PropertyOwner != actorID {
		return nil, apperr.Forbidden("Not authorized to respond to this inquiry")
	}

	if inq.Status != models.InquiryStatusPending && inq.Status != models.InquiryStatusContacted {
		return nil, apperr.Conflict("Inquiry cannot be responded to in its current status")
	}

	inq.Response = &models.InquiryResponse{
		Message:     message,
		RespondedAt: time.Now(),
		RespondedBy: actorID,
	}
	inq.SetStatus(models.InquiryStatusContacted)

	if err := s.store.Update(ctx, inq); err != nil {
		return nil, apperr.Dependency("failed to update inquiry", err)
	}

	s.notifyInquirer(ctx, inq, notify.TemplateInquiryResponse, map[string]any{
		"responseMessage": message,
	})
	return inq, nil
}

// Schedule records a meeting and moves the inquiry to scheduled. Only
// the property owner may schedule, and only while the inquiry is open.
func (s *Service) Schedule(ctx context.Context, actorID primitive.ObjectID, inquiryID primitive.ObjectID, req ScheduleRequest) (*models.Inquiry, error) {
	if req.Type != models.MeetingTypePhysical && req.Type != models.MeetingTypeVirtual {
		return nil, apperr.Validation("type", "meeting type must be physical or virtual")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperr.Validation("date", "date must be in YYYY-MM-DD format")
	}

	inq, err := s.store.ByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if inq.PropertyOwner != actorID {
		return nil, apperr.Forbidden("Not authorized to schedule meeting for this inquiry")
	}

	if !models.IsOpenInquiryStatus(inq.Status) {
		return nil, apperr.Conflict("Inquiry is already closed")
	}

	inq.MeetingScheduled = &models.Meeting{
		Date:     date,
		Time:     req.Time,
		Location: req.Location,
		Type:     req.Type,
	}
	inq.SetStatus(models.InquiryStatusScheduled)

	if err := s.store.Update(ctx, inq); err != nil {
		return nil, apperr.Dependency("failed to update inquiry", err)
	}

	location := req.Location
	if location == "" {
		location = "Virtual Meeting"
	}
	s.notifyInquirer(ctx, inq, notify.TemplateMeetingScheduled, map[string]any{
		"meetingDate": date.Format("02 Jan 2006"),
		"meetingTime": req.Time,
		"meetingType": req.Type,
		"location":    location,
	})
	return inq, nil
}

// UpdateStatus is the unguarded escape-hatch transition: either party
// may set any of the five statuses regardless of the current state. The
// bypass of the respond/schedule side effects is deliberate and is made
// observable through the audit log line.
func (s *Service) UpdateStatus(ctx context.Context, actorID primitive.ObjectID, inquiryID primitive.ObjectID, status string) (*models.Inquiry, error) {
	if !models.IsValidInquiryStatus(status) {
		return nil, apperr.Validation("status", "Invalid status")
	}

	inq, err := s.store.ByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if inq.PropertyOwner != actorID && inq.Inquirer != actorID {
		return nil, apperr.Forbidden("Not authorized to update this inquiry")
	}

	from := inq.Status
	inq.SetStatus(status)

	if err := s.store.Update(ctx, inq); err != nil {
		return nil, apperr.Dependency("failed to update inquiry", err)
	}

	s.log.Info("inquiry status updated",
		"inquiry", inq.ID.Hex(), "from", from, "to", status, "actor", actorID.Hex())
	return inq, nil
}

type ListResult struct {
	Inquiries  []models.Inquiry  `json:"inquiries"`
	Pagination search.Pagination `json:"pagination"`
}

// Sent lists inquiries created by the user, newest first.
func (s *Service) Sent(ctx context.Context, userID primitive.ObjectID, page search.Page) (*ListResult, error) {
	return s.list(ctx, bson.M{"inquirer": userID}, page)
}

// Received lists inquiries against the user's properties, newest first,
// optionally filtered by status and type.
func (s *Service) Received(ctx context.Context, userID primitive.ObjectID, status, inqType string, page search.Page) (*ListResult, error) {
	query := bson.M{"propertyOwner": userID}
	if status != "" {
		if !models.IsValidInquiryStatus(status) {
			return nil, apperr.Validation("status", "Invalid status")
		}
		query["status"] = status
	}
	if inqType != "" {
		switch inqType {
		case models.InquiryTypeVisit, models.InquiryTypeCall, models.InquiryTypeEmail, models.InquiryTypeGeneral:
			query["type"] = inqType
		default:
			return nil, apperr.Validation("type", "Invalid inquiry type")
		}
	}
	return s.list(ctx, query, page)
}

func (s *Service) list(ctx context.Context, query bson.M, page search.Page) (*ListResult, error) {
	inquiries, total, err := s.store.List(ctx, query, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, apperr.Dependency("failed to fetch inquiries", err)
	}
	return &ListResult{
		Inquiries:  inquiries,
		Pagination: search.Paginate(page, total),
	}, nil
}

func (s *Service) notifyOwner(ctx context.Context, inq *models.Inquiry, property *models.Property) {
	owner, err := s.store.UserByID(ctx, inq.PropertyOwner)
	if err != nil {
		s.log.Error("failed to load owner for inquiry notification", "inquiry", inq.ID.Hex(), "error", err)
		return
	}
	inquirer, err := s.store.UserByID(ctx, inq.Inquirer)
	if err != nil {
		s.log.Error("failed to load inquirer for inquiry notification", "inquiry", inq.ID.Hex(), "error", err)
		return
	}

	err = s.notifier.Notify(ctx, owner.Email, notify.TemplatePropertyInquiry, map[string]any{
		"ownerName":     owner.Name,
		"propertyTitle": property.Title,
		"inquirerName":  inquirer.Name,
		"inquirerEmail": inquirer.Email,
		"inquiryType":   inq.Type,
		"message":       inq.Message,
		"dashboardUrl":  s.clientURL + "/dashboard/inquiries",
	})
	if err != nil {
		s.log.Error("failed to send inquiry notification", "inquiry", inq.ID.Hex(), "error", err)
	}
}

func (s *Service) notifyInquirer(ctx context.Context, inq *models.Inquiry, template string, extra map[string]any) {
	inquirer, err := s.store.UserByID(ctx, inq.Inquirer)
	if err != nil {
		s.log.Error("failed to load inquirer for notification", "inquiry", inq.ID.Hex(), "error", err)
		return
	}
	title := ""
	if property, err := s.store.PropertyByID(ctx, inq.Property); err == nil {
		title = property.Title
	}

	data := map[string]any{
		"inquirerName":  inquirer.Name,
		"propertyTitle": title,
		"dashboardUrl":  s.clientURL + "/dashboard/inquiries",
	}
	for k, v := range extra {
		data[k] = v
	}

	if err := s.notifier.Notify(ctx, inquirer.Email, template, data); err != nil {
		s.log.Error("failed to send inquiry notification", "inquiry", inq.ID.Hex(), "template", template, "error", err)
	}
}
