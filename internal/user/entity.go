package user

import "time"

const DefaultLevel = "Mindful Novice"

type User struct {
	ID                     string    `bson:"_id" json:"id"`
	GoogleID               string    `bson:"google_id" json:"google_id"`
	Email                  string    `bson:"email" json:"email"`
	FullName               string    `bson:"full_name" json:"full_name"`
	AvatarURL              string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	HasCompletedOnboarding bool      `bson:"has_completed_onboarding" json:"has_completed_onboarding"`
	Streak                 int       `bson:"streak" json:"streak"`
	Level                  string    `bson:"level" json:"level"`
	CreatedAt              time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time `bson:"updated_at" json:"updated_at"`
}
