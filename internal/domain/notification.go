package domain

import "time"

const (
	NotificationCategoryTripAssignment = "Trip Assignment"
	NotificationEntityRoute            = "Route"
)

// Notification is the record handed to the delivery subsystem.
// Sending email/SMS is not done here; the flags only express intent.
type Notification struct {
	ID                string    `json:"id" bson:"_id"`
	UserID            string    `json:"user_id" bson:"userid"`
	Title             string    `json:"title" bson:"title"`
	Message           string    `json:"message" bson:"message"`
	Category          string    `json:"category" bson:"category"`
	RelatedEntityType string    `json:"related_entity_type" bson:"relatedentitytype"`
	RelatedEntityID   string    `json:"related_entity_id" bson:"relatedentityid"`
	SendEmail         bool      `json:"send_email" bson:"sendemail"`
	SendSms           bool      `json:"send_sms" bson:"sendsms"`
	CreatedAt         time.Time `json:"created_at" bson:"createdat"`
}
