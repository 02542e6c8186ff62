package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Operator roles
type Role string

const (
	RoleCourier     Role = "courier"
	RoleBalloonPrep Role = "balloonPrep"
	RoleAccompanier Role = "accompanier"
	RoleAdmin       Role = "admin"
)

// ParseRole validates a role string as read from flags or the preference store.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCourier, RoleBalloonPrep, RoleAccompanier, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (expected one of: %s)", s, Roles())
}

// Roles lists every operator role for validation messages.
func Roles() string {
	return strings.Join([]string{
		string(RoleCourier), string(RoleBalloonPrep),
		string(RoleAccompanier), string(RoleAdmin),
	}, ", ")
}

// Balloon delivery lifecycle. The backend reads and echoes symbolic names
// but expects the numeric code on every status mutation.
type BalloonStatus string

const (
	BalloonPending        BalloonStatus = "Pending"
	BalloonReadyForPickup BalloonStatus = "ReadyForPickup"
	BalloonPickedUp       BalloonStatus = "PickedUp"
	BalloonDelivered      BalloonStatus = "Delivered"
)

// BalloonStatuses lists the four statuses in lifecycle order.
var BalloonStatuses = []BalloonStatus{
	BalloonPending, BalloonReadyForPickup, BalloonPickedUp, BalloonDelivered,
}

// Code returns the wire encoding used by mutation endpoints:
// Pending=0, ReadyForPickup=1, PickedUp=2, Delivered=3.
func (s BalloonStatus) Code() int {
	switch s {
	case BalloonReadyForPickup:
		return 1
	case BalloonPickedUp:
		return 2
	case BalloonDelivered:
		return 3
	}
	return 0
}

// BalloonStatusFromCode is the inverse of Code.
func BalloonStatusFromCode(code int) (BalloonStatus, error) {
	switch code {
	case 0:
		return BalloonPending, nil
	case 1:
		return BalloonReadyForPickup, nil
	case 2:
		return BalloonPickedUp, nil
	case 3:
		return BalloonDelivered, nil
	}
	return "", fmt.Errorf("unknown balloon status code %d", code)
}

// UnmarshalJSON accepts both the symbolic name and the numeric code; the
// backend is not consistent about which it sends.
func (s *BalloonStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch BalloonStatus(name) {
		case BalloonPending, BalloonReadyForPickup, BalloonPickedUp, BalloonDelivered:
			*s = BalloonStatus(name)
			return nil
		}
		return fmt.Errorf("unknown balloon status %q", name)
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("balloon status must be a string or number, got %s", data)
	}
	st, err := BalloonStatusFromCode(code)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Toilet request lifecycle, same dual string/number wire encoding.
type ToiletStatus string

const (
	ToiletPending    ToiletStatus = "Pending"
	ToiletInProgress ToiletStatus = "InProgress"
	ToiletCompleted  ToiletStatus = "Completed"
)

var ToiletStatuses = []ToiletStatus{ToiletPending, ToiletInProgress, ToiletCompleted}

func (s ToiletStatus) Code() int {
	switch s {
	case ToiletInProgress:
		return 1
	case ToiletCompleted:
		return 2
	}
	return 0
}

func ToiletStatusFromCode(code int) (ToiletStatus, error) {
	switch code {
	case 0:
		return ToiletPending, nil
	case 1:
		return ToiletInProgress, nil
	case 2:
		return ToiletCompleted, nil
	}
	return "", fmt.Errorf("unknown toilet request status code %d", code)
}

func (s *ToiletStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch ToiletStatus(name) {
		case ToiletPending, ToiletInProgress, ToiletCompleted:
			*s = ToiletStatus(name)
			return nil
		}
		return fmt.Errorf("unknown toilet request status %q", name)
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("toilet request status must be a string or number, got %s", data)
	}
	st, err := ToiletStatusFromCode(code)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Domain types

type BalloonTask struct {
	ID              string        `json:"id"`
	SubmissionID    int64         `json:"submissionId"`
	TeamID          string        `json:"teamId"`
	TeamName        string        `json:"teamName"`
	ProblemIndex    string        `json:"problemIndex"`
	BalloonColor    string        `json:"balloonColor"`
	Status          BalloonStatus `json:"status"`
	Timestamp       time.Time     `json:"timestamp"`
	StatusChangedAt *time.Time    `json:"statusChangedAt,omitempty"`
	StatusChangedBy string        `json:"statusChangedBy,omitempty"`
	RoomName        string        `json:"roomName"`
}

type ToiletRequest struct {
	ID              string       `json:"id"`
	TeamID          string       `json:"teamId"`
	TeamName        string       `json:"teamName"`
	RoomName        string       `json:"roomName"`
	Status          ToiletStatus `json:"status"`
	IsMale          bool         `json:"isMale"`
	IsUrgent        bool         `json:"isUrgent"`
	Comment         string       `json:"comment"`
	Timestamp       time.Time    `json:"timestamp"`
	StatusChangedAt *time.Time   `json:"statusChangedAt,omitempty"`
	StatusChangedBy string       `json:"statusChangedBy,omitempty"`
}

type Team struct {
	ID               string `json:"id"`
	CodeforcesHandle string `json:"codeforcesHandle"`
	RoomID           string `json:"roomId"`
	AdminSettingsID  string `json:"adminSettingsId"`
}

type Room struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Capacity        *int   `json:"capacity,omitempty"`
	IsAvailable     *bool  `json:"isAvailable,omitempty"`
	AdminSettingsID string `json:"adminSettingsId"`
}

type ProblemBalloonMap struct {
	ID              string `json:"id"`
	AdminSettingsID string `json:"adminSettingsId"`
	ProblemIndex    string `json:"problemIndex"`
	BalloonColor    string `json:"balloonColor"`
}

type AdminSettings struct {
	ID                  string              `json:"id"`
	AdminUsername       string              `json:"adminUsername"`
	ContestID           string              `json:"contestId"`
	CodeforcesAPIKey    string              `json:"codeforcesApiKey,omitempty"`
	CodeforcesAPISecret string              `json:"codeforcesApiSecret,omitempty"`
	IsEnabled           bool                `json:"isEnabled"`
	Teams               []Team              `json:"teams"`
	Rooms               []Room              `json:"rooms"`
	ProblemBalloonMaps  []ProblemBalloonMap `json:"problemBalloonMaps"`
}

// Categorized snapshots, one named sequence per status. These are the only
// collection shapes the boards ever see; all wire-shape tolerance lives
// below them in apiclient and hub.

type BalloonUpdates struct {
	Pending        []BalloonTask `json:"pending"`
	ReadyForPickup []BalloonTask `json:"readyForPickup"`
	PickedUp       []BalloonTask `json:"pickedUp"`
	Delivered      []BalloonTask `json:"delivered"`
}

// Total counts every task across the four sequences.
func (u BalloonUpdates) Total() int {
	return len(u.Pending) + len(u.ReadyForPickup) + len(u.PickedUp) + len(u.Delivered)
}

// ByStatus returns the sequence for one status.
func (u BalloonUpdates) ByStatus(s BalloonStatus) []BalloonTask {
	switch s {
	case BalloonReadyForPickup:
		return u.ReadyForPickup
	case BalloonPickedUp:
		return u.PickedUp
	case BalloonDelivered:
		return u.Delivered
	}
	return u.Pending
}

type ToiletUpdates struct {
	Pending    []ToiletRequest `json:"pending"`
	InProgress []ToiletRequest `json:"inProgress"`
	Completed  []ToiletRequest `json:"completed"`
}

func (u ToiletUpdates) Total() int {
	return len(u.Pending) + len(u.InProgress) + len(u.Completed)
}

func (u ToiletUpdates) ByStatus(s ToiletStatus) []ToiletRequest {
	switch s {
	case ToiletInProgress:
		return u.InProgress
	case ToiletCompleted:
		return u.Completed
	}
	return u.Pending
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// BalloonStatusUpdate is the PUT /balloon/status payload. The backend
// expects the numeric status code, and names the actor field deliveredBy
// no matter which transition is being made.
type BalloonStatusUpdate struct {
	ID        string `json:"id"`
	Status    int    `json:"status"`
	ChangedBy string `json:"deliveredBy,omitempty"`
}

type ToiletStatusUpdate struct {
	ID        string `json:"id"`
	Status    int    `json:"status"`
	UpdatedBy string `json:"statusUpdatedBy"`
	Comment   string `json:"comment"`
}

type ToiletRequestCreate struct {
	TeamID    string `json:"teamId"`
	IsMale    bool   `json:"isMale"`
	IsUrgent  bool   `json:"isUrgent"`
	Comment   string `json:"comment"`
	ChangedBy string `json:"statusChangedBy"`
}

type RoomCreate struct {
	Name        string `json:"name"`
	Capacity    *int   `json:"capacity,omitempty"`
	IsAvailable *bool  `json:"isAvailable,omitempty"`
}

type TeamCreate struct {
	ID               string `json:"id"`
	CodeforcesHandle string `json:"codeforcesHandle"`
	RoomID           string `json:"roomId"`
}

// AnnouncementMessage is one free-text broadcast as carried over the push
// channel.
type AnnouncementMessage struct {
	Message string `json:"message"`
	SentBy  string `json:"sentBy,omitempty"`
}

// Error response shape shared by the backend's endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DisplayName renders an owner label like "Team 42 (Lab-01)" for the card
// renderers.
func (t BalloonTask) DisplayName() string {
	if t.RoomName == "" {
		return t.TeamName
	}
	return t.TeamName + " (" + t.RoomName + ")"
}

func (t ToiletRequest) DisplayName() string {
	if t.RoomName == "" {
		return t.TeamName
	}
	return t.TeamName + " (" + t.RoomName + ")"
}
