package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inquiry status enum.
const (
	InquiryStatusPending   = "pending"
	InquiryStatusContacted = "contacted"
	InquiryStatusScheduled = "scheduled"
	InquiryStatusCompleted = "completed"
	InquiryStatusCancelled = "cancelled"
)

// Inquiry type enum.
const (
	InquiryTypeVisit   = "visit"
	InquiryTypeCall    = "call"
	InquiryTypeEmail   = "email"
	InquiryTypeGeneral = "general"
)

// Contact preference enum.
const (
	ContactPrefPhone    = "phone"
	ContactPrefEmail    = "email"
	ContactPrefWhatsapp = "whatsapp"
)

// Meeting type enum.
const (
	MeetingTypePhysical = "physical"
	MeetingTypeVirtual  = "virtual"
)

var InquiryStatuses = []string{
	InquiryStatusPending, InquiryStatusContacted, InquiryStatusScheduled,
	InquiryStatusCompleted, InquiryStatusCancelled,
}

// OpenInquiryStatuses are the statuses that count as an active inquiry:
// only one such inquiry may exist per (inquirer, property) pair.
var OpenInquiryStatuses = []string{
	InquiryStatusPending, InquiryStatusContacted, InquiryStatusScheduled,
}

// IsOpenInquiryStatus reports whether status counts toward the
// single-open-inquiry invariant.
func IsOpenInquiryStatus(status string) bool {
	switch status {
	case InquiryStatusPending, InquiryStatusContacted, InquiryStatusScheduled:
		return true
	}
	return false
}

func IsValidInquiryStatus(status string) bool {
	for _, s := range InquiryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type PreferredTime struct {
	Date time.Time `bson:"date" json:"date"`
	Time string    `bson:"time" json:"time"`
}

type InquiryResponse struct {
	Message     string             `bson:"message" json:"message"`
	RespondedAt time.Time          `bson:"respondedAt" json:"respondedAt"`
	RespondedBy primitive.ObjectID `bson:"respondedBy" json:"respondedBy"`
}

type Meeting struct {
	Date     time.Time `bson:"date" json:"date"`
	Time     string    `bson:"time" json:"time"`
	Location string    `bson:"location" json:"location"`
	Type     string    `bson:"type" json:"type"`
}

type Inquiry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Property primitive.ObjectID `bson:"property" json:"property"`
	Inquirer primitive.ObjectID `bson:"inquirer" json:"inquirer"`
	// PropertyOwner is captured from the property at creation time and does
	// not follow later ownership transfer.
	PropertyOwner     primitive.ObjectID `bson:"propertyOwner" json:"propertyOwner"`
	Type              string             `bson:"type" json:"type"`
	Message           string             `bson:"message" json:"message"`
	ContactPreference string             `bson:"contactPreference" json:"contactPreference"`
	PreferredTime     *PreferredTime     `bson:"preferredTime,omitempty" json:"preferredTime,omitempty"`
	Status            string             `bson:"status" json:"status"`
	// Open mirrors the status so a partial unique index can enforce the
	// single-open-inquiry invariant under concurrent writers.
	Open             bool             `bson:"open" json:"-"`
	Response         *InquiryResponse `bson:"response,omitempty" json:"response,omitempty"`
	MeetingScheduled *Meeting         `bson:"meetingScheduled,omitempty" json:"meetingScheduled,omitempty"`
	Rating           int              `bson:"rating,omitempty" json:"rating,omitempty"`
	Feedback         string           `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt        time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus updates the status and keeps the open marker in sync.
func (i *Inquiry) SetStatus(status string) {
	i.Status = status
	i.Open = IsOpenInquiryStatus(status)
	i.UpdatedAt = time.Now()
}
