package inquiry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/notify"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	properties map[primitive.ObjectID]models.Property
	inquiries  map[primitive.ObjectID]*models.Inquiry
	users      map[primitive.ObjectID]models.User

	openExists bool
	insertErr  error
	updateErr  error

	inserted  *models.Inquiry
	listQuery bson.M
	listTotal int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		properties: map[primitive.ObjectID]models.Property{},
		inquiries:  map[primitive.ObjectID]*models.Inquiry{},
		users:      map[primitive.ObjectID]models.User{},
	}
}

func (f *fakeStore) PropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	if p, ok := f.properties[id]; ok {
		return &p, nil
	}
	return nil, apperr.NotFound("Property not found")
}

func (f *fakeStore) HasOpenInquiry(ctx context.Context, propertyID, inquirerID primitive.ObjectID) (bool, error) {
	return f.openExists, nil
}

func (f *fakeStore) Insert(ctx context.Context, inquiry *models.Inquiry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = inquiry
	f.inquiries[inquiry.ID] = inquiry
	return nil
}

func (f *fakeStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	if inq, ok := f.inquiries[id]; ok {
		dup := *inq
		return &dup, nil
	}
	return nil, apperr.NotFound("Inquiry not found")
}

func (f *fakeStore) Update(ctx context.Context, inquiry *models.Inquiry) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.inquiries[inquiry.ID] = inquiry
	return nil
}

func (f *fakeStore) List(ctx context.Context, query bson.M, skip, limit int64) ([]models.Inquiry, int64, error) {
	f.listQuery = query
	return nil, f.listTotal, nil
}

func (f *fakeStore) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, apperr.NotFound("User not found")
}

type fakeNotifier struct {
	err        error
	recipients []string
	templates  []string
	data       []map[string]any
}

func (f *fakeNotifier) Notify(ctx context.Context, recipient, template string, data map[string]any) error {
	f.recipients = append(f.recipients, recipient)
	f.templates = append(f.templates, template)
	f.data = append(f.data, data)
	return f.err
}

type fixture struct {
	store    *fakeStore
	notifier *fakeNotifier
	svc      *Service

	owner    primitive.ObjectID
	inquirer primitive.ObjectID
	property primitive.ObjectID
}

func newFixture() *fixture {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	owner := primitive.NewObjectID()
	inquirer := primitive.NewObjectID()
	property := primitive.NewObjectID()

	store.properties[property] = models.Property{
		ID:    property,
		Title: "3BHK Villa in Whitefield",
		Owner: owner,
	}
	store.users[owner] = models.User{ID: owner, Name: "Ravi", Email: "ravi@example.com"}
	store.users[inquirer] = models.User{ID: inquirer, Name: "Asha", Email: "asha@example.com"}

	return &fixture{
		store:    store,
		notifier: notifier,
		svc:      NewService(store, notifier, log, "http://localhost:3000"),
		owner:    owner,
		inquirer: inquirer,
		property: property,
	}
}

func (fx *fixture) createRequest() CreateRequest {
	return CreateRequest{
		PropertyID: fx.property.Hex(),
		Type:       models.InquiryTypeVisit,
		Message:    "I would like to visit this property next weekend.",
	}
}

func (fx *fixture) existingInquiry(status string) *models.Inquiry {
	inq := &models.Inquiry{
		ID:            primitive.NewObjectID(),
		Property:      fx.property,
		Inquirer:      fx.inquirer,
		PropertyOwner: fx.owner,
		Type:          models.InquiryTypeVisit,
		Message:       "I would like to visit this property next weekend.",
		Status:        status,
		Open:          models.IsOpenInquiryStatus(status),
	}
	fx.store.inquiries[inq.ID] = inq
	return inq
}

func TestCreate_OpensPendingInquiry(t *testing.T) {
	fx := newFixture()

	inq, err := fx.svc.Create(context.Background(), fx.inquirer, fx.createRequest())
	require.NoError(t, err)

	assert.Equal(t, models.InquiryStatusPending, inq.Status)
	assert.True(t, inq.Open)
	assert.Equal(t, fx.owner, inq.PropertyOwner)
	assert.Equal(t, models.ContactPrefPhone, inq.ContactPreference, "contact preference defaults to phone")

	require.Len(t, fx.notifier.recipients, 1)
	assert.Equal(t, "ravi@example.com", fx.notifier.recipients[0])
	assert.Equal(t, notify.TemplatePropertyInquiry, fx.notifier.templates[0])
}

func TestCreate_SelfInquiryRejected(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Create(context.Background(), fx.owner, fx.createRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Nil(t, fx.store.inserted)
	assert.Empty(t, fx.notifier.recipients)
}

func TestCreate_DuplicateOpenInquiryConflicts(t *testing.T) {
	fx := newFixture()
	fx.store.openExists = true

	_, err := fx.svc.Create(context.Background(), fx.inquirer, fx.createRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreate_AllowedAfterCancellation(t *testing.T) {
	fx := newFixture()
	fx.existingInquiry(models.InquiryStatusCancelled)
	// Cancelled inquiries are closed, so the open-inquiry check passes.
	fx.store.openExists = false

	_, err := fx.svc.Create(context.Background(), fx.inquirer, fx.createRequest())
	require.NoError(t, err)
}

func TestCreate_RaceLosesToStorageConstraint(t *testing.T) {
	fx := newFixture()
	fx.store.insertErr = apperr.Conflict("You already have an active inquiry for this property")

	_, err := fx.svc.Create(context.Background(), fx.inquirer, fx.createRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreate_InvalidPropertyID(t *testing.T) {
	fx := newFixture()
	req := fx.createRequest()
	req.PropertyID = "not-a-hex-id"

	_, err := fx.svc.Create(context.Background(), fx.inquirer, req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRespond_RecordsResponseAndNotifies(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	updated, err := fx.svc.Respond(context.Background(), fx.owner, inq.ID, "Happy to arrange a visit on Saturday.")
	require.NoError(t, err)

	assert.Equal(t, models.InquiryStatusContacted, updated.Status)
	assert.True(t, updated.Open)
	require.NotNil(t, updated.Response)
	assert.Equal(t, "Happy to arrange a visit on Saturday.", updated.Response.Message)
	assert.Equal(t, fx.owner, updated.Response.RespondedBy)

	require.Len(t, fx.notifier.recipients, 1)
	assert.Equal(t, "asha@example.com", fx.notifier.recipients[0])
	assert.Equal(t, notify.TemplateInquiryResponse, fx.notifier.templates[0])
}

func TestRespond_NonOwnerForbidden(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	_, err := fx.svc.Respond(context.Background(), fx.inquirer, inq.ID, "hello")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRespond_ClosedInquiryConflicts(t *testing.T) {
	fx := newFixture()

	for _, status := range []string{
		models.InquiryStatusScheduled,
		models.InquiryStatusCompleted,
		models.InquiryStatusCancelled,
	} {
		inq := fx.existingInquiry(status)
		_, err := fx.svc.Respond(context.Background(), fx.owner, inq.ID, "too late")
		require.Error(t, err, status)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict), status)
	}
}

func TestRespond_NotifyFailureDoesNotFail(t *testing.T) {
	fx := newFixture()
	fx.notifier.err = errors.New("smtp unavailable")
	inq := fx.existingInquiry(models.InquiryStatusPending)

	updated, err := fx.svc.Respond(context.Background(), fx.owner, inq.ID, "Happy to arrange a visit.")
	require.NoError(t, err, "delivery failure must not roll back the transition")
	assert.Equal(t, models.InquiryStatusContacted, updated.Status)
}

func TestSchedule_RecordsMeeting(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusContacted)

	updated, err := fx.svc.Schedule(context.Background(), fx.owner, inq.ID, ScheduleRequest{
		Date:     "2026-09-12",
		Time:     "15:00",
		Location: "On site",
		Type:     models.MeetingTypePhysical,
	})
	require.NoError(t, err)

	assert.Equal(t, models.InquiryStatusScheduled, updated.Status)
	require.NotNil(t, updated.MeetingScheduled)
	assert.Equal(t, "15:00", updated.MeetingScheduled.Time)
	assert.Equal(t, models.MeetingTypePhysical, updated.MeetingScheduled.Type)

	require.Len(t, fx.notifier.templates, 1)
	assert.Equal(t, notify.TemplateMeetingScheduled, fx.notifier.templates[0])
	assert.Equal(t, "12 Sep 2026", fx.notifier.data[0]["meetingDate"])
}

func TestSchedule_NonOwnerForbidden(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	_, err := fx.svc.Schedule(context.Background(), fx.inquirer, inq.ID, ScheduleRequest{
		Date: "2026-09-12", Time: "15:00", Type: models.MeetingTypeVirtual,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestSchedule_ClosedInquiryConflicts(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusCancelled)

	_, err := fx.svc.Schedule(context.Background(), fx.owner, inq.ID, ScheduleRequest{
		Date: "2026-09-12", Time: "15:00", Type: models.MeetingTypeVirtual,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSchedule_ValidatesInput(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	_, err := fx.svc.Schedule(context.Background(), fx.owner, inq.ID, ScheduleRequest{
		Date: "12/09/2026", Time: "15:00", Type: models.MeetingTypePhysical,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = fx.svc.Schedule(context.Background(), fx.owner, inq.ID, ScheduleRequest{
		Date: "2026-09-12", Time: "15:00", Type: "hybrid",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateStatus_AcceptsAllKnownStatuses(t *testing.T) {
	fx := newFixture()

	for _, status := range models.InquiryStatuses {
		inq := fx.existingInquiry(models.InquiryStatusCompleted)

		updated, err := fx.svc.UpdateStatus(context.Background(), fx.owner, inq.ID, status)
		require.NoError(t, err, status)
		assert.Equal(t, status, updated.Status)
		assert.Equal(t, models.IsOpenInquiryStatus(status), updated.Open,
			"open marker must track the status")
	}
}

func TestUpdateStatus_EitherPartyMayUpdate(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	_, err := fx.svc.UpdateStatus(context.Background(), fx.inquirer, inq.ID, models.InquiryStatusCancelled)
	require.NoError(t, err)

	stored := fx.store.inquiries[inq.ID]
	assert.Equal(t, models.InquiryStatusCancelled, stored.Status)
	assert.False(t, stored.Open)
}

func TestUpdateStatus_StrangerForbidden(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	_, err := fx.svc.UpdateStatus(context.Background(), primitive.NewObjectID(), inq.ID, models.InquiryStatusCancelled)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	fx := newFixture()
	inq := fx.existingInquiry(models.InquiryStatusPending)

	_, err := fx.svc.UpdateStatus(context.Background(), fx.owner, inq.ID, "archived")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSent_ScopesToInquirer(t *testing.T) {
	fx := newFixture()
	fx.store.listTotal = 3

	result, err := fx.svc.Sent(context.Background(), fx.inquirer, search.Page{Number: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"inquirer": fx.inquirer}, fx.store.listQuery)
	assert.Equal(t, int64(3), result.Pagination.Total)
}

func TestReceived_FiltersValidated(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Received(context.Background(), fx.owner, "archived", "", search.Page{Number: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = fx.svc.Received(context.Background(), fx.owner, "", "letter", search.Page{Number: 1, Limit: 10})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = fx.svc.Received(context.Background(), fx.owner, models.InquiryStatusPending, models.InquiryTypeVisit, search.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, bson.M{
		"propertyOwner": fx.owner,
		"status":        models.InquiryStatusPending,
		"type":          models.InquiryTypeVisit,
	}, fx.store.listQuery)
}
