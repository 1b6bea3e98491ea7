// Package domain defines the persistence models for users, subscriptions,
// demo requests, and AI conversation turns. These types are mapped with BSON
// tags for MongoDB and form the core data layer of the MorseVerse backend.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLang is the language tag applied to a conversation turn when the
// request did not specify one.
const DefaultLang = "EN-US"

// AIAnswer is the processed answer attached to a conversation turn. It is
// both the persisted sub-document and the JSON body returned to the caller,
// mirroring the wire shape of the upstream AI service.
//
// Fields:
//   - Question: the user utterance (typed, or transcribed from audio upstream).
//   - Answer: reply text after link extraction and trimming.
//   - VoiceAnswer: speech-oriented rendering of Answer with list numbers
//     verbalized; derived from Answer, never edited independently.
//   - Links: URLs extracted from the raw answer, in order of appearance.
//     Always non-nil after post-processing, empty when none were found.
//   - ProcessTime: wall-clock seconds spent producing the answer.
type AIAnswer struct {
	Question    string   `json:"question"               bson:"question"`
	Answer      string   `json:"answer"                 bson:"answer"`
	VoiceAnswer *string  `json:"voice_answer,omitempty" bson:"voice_answer,omitempty"`
	Links       []string `json:"links"                  bson:"links"`
	ProcessTime *float64 `json:"process_time,omitempty" bson:"process_time,omitempty"`
}

// Turn is one question/answer exchange persisted in the UserMessage
// collection. Turns are immutable once written: there are no update or
// delete paths, and (CompanyID, UserID) always match the request that
// created the turn.
type Turn struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"company_id" bson:"companyId"`
	UserID    primitive.ObjectID `json:"user_id"    bson:"userId"`
	Answer    AIAnswer           `json:"messages"   bson:"messages"`
	Lang      string             `json:"lang"       bson:"lang"`
	Time      time.Time          `json:"time"       bson:"time"`
}

// TurnDetail is the per-turn row of a transcript summary.
type TurnDetail struct {
	UserID   string    `json:"userId"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Time     time.Time `json:"time"`
}

// TranscriptSummary aggregates a company's conversation history: total
// question count, cumulative processing time as a human-readable duration
// string (e.g. "2 days, 1:30:00"), and a per-turn detail list preserving
// the order the turns were supplied in.
type TranscriptSummary struct {
	TotalQuestions int          `json:"total_questions"`
	TotalTime      string       `json:"total_time"`
	Details        []TurnDetail `json:"details"`
}

// User represents a registered account stored in the Registered_users
// collection. Passwords are stored as bcrypt hashes only.
//
// Fields:
//   - IsVerified: set once the email verification link has been followed;
//     unverified users cannot log in.
//   - IsCompany / CompanyID: company accounts receive a generated company
//     identifier at signup.
//   - Promo: marketing opt-in captured at signup.
type User struct {
	ID             primitive.ObjectID `json:"id"                    bson:"_id,omitempty"`
	Email          string             `json:"email"                 bson:"email"`
	HashedPassword string             `json:"-"                     bson:"hashed_password,omitempty"`
	FullName       string             `json:"full_name,omitempty"   bson:"full_name,omitempty"`
	IsActive       bool               `json:"is_active"             bson:"is_active"`
	IsVerified     bool               `json:"is_verified"           bson:"is_verified"`
	IsCompany      bool               `json:"is_company"            bson:"is_company"`
	CompanyID      string             `json:"company_id,omitempty"  bson:"company_id,omitempty"`
	Promo          bool               `json:"promo"                 bson:"promo"`
	DateJoined     time.Time          `json:"date_joined"           bson:"date_joined"`
}

// Subscription is a captured newsletter signup (Subscriptions collection).
type Subscription struct {
	ID    primitive.ObjectID `json:"id"    bson:"_id,omitempty"`
	Email string             `json:"email" bson:"email"`
	Date  time.Time          `json:"date"  bson:"date"`
}

// DemoRequest is a marketing "book a demo" form submission (demo collection).
type DemoRequest struct {
	ID             primitive.ObjectID `json:"id"                       bson:"_id,omitempty"`
	FirstName      string             `json:"firstName"                bson:"firstName"`
	LastName       string             `json:"lastName,omitempty"       bson:"lastName,omitempty"`
	Email          string             `json:"email"                    bson:"email"`
	Website        string             `json:"website"                  bson:"website"`
	Country        string             `json:"country,omitempty"        bson:"country,omitempty"`
	CommunityScale string             `json:"communityScale,omitempty" bson:"communityScale,omitempty"`
	Message        string             `json:"message,omitempty"        bson:"message,omitempty"`
	Goals          string             `json:"goals"                    bson:"goals"`
	CreatedAt      time.Time          `json:"created_at"               bson:"created_at"`
}
