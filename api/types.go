package api

import "time"

// User is the identity block returned by the authentication endpoint.
type User struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	ProjectID   string   `json:"project_id"`
}

// SessionWindow is the validity window block of a login response.
type SessionWindow struct {
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResponse is the full payload of POST /auth/login. Token, User and
// Session must all be present; the session manager rejects anything less.
type LoginResponse struct {
	Token   string         `json:"token"`
	User    *User          `json:"user"`
	Session *SessionWindow `json:"session"`
}

// Asset is the server-held extinguisher record. The client is only
// load-bearing on ID; everything else is display data passed through.
type Asset struct {
	ID               int64   `json:"id"`
	Location         string  `json:"location"`
	Block            string  `json:"block"`
	Area             string  `json:"area"`
	Floor            string  `json:"floor"`
	Country          string  `json:"country"`
	State            string  `json:"state"`
	City             string  `json:"city"`
	TypeCapacity     string  `json:"type_capacity"`
	ManufactureYear  int     `json:"manufacture_year"`
	InstallationYear int     `json:"installation_year"`
	CylinderCondition string `json:"cylinder_condition,omitempty"`
	HoseCondition    string  `json:"hose_condition,omitempty"`
	StandCondition   string  `json:"stand_condition,omitempty"`
	RefilledDate     string  `json:"refilled_date,omitempty"`
	NextRefillDate   string  `json:"next_refill_date,omitempty"`
	ServicedDate     string  `json:"serviced_date,omitempty"`
	NextServiceDate  string  `json:"next_service_date,omitempty"`
	FullWeight       float64 `json:"full_weight,omitempty"`
	ActualWeight     float64 `json:"actual_weight,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// MapLink derives a maps URL from the asset's coordinates. It is a pure
// function of the record and is never persisted.
func (a *Asset) MapLink() (string, bool) {
	if a == nil || (a.Latitude == 0 && a.Longitude == 0) {
		return "", false
	}
	return "https://www.google.com/maps/search/?api=1&query=" +
		formatCoord(a.Latitude) + "," + formatCoord(a.Longitude), true
}

// Condition is the per-unit condition block used by inspections and
// replacement events.
type Condition struct {
	CylinderCondition string  `json:"cylinder_condition"`
	HoseCondition     string  `json:"hose_condition"`
	StandCondition    string  `json:"stand_condition"`
	FullWeight        float64 `json:"full_weight"`
	ActualWeight      float64 `json:"actual_weight"`
}

// Complete reports whether every condition field was filled in.
func (c Condition) Complete() bool {
	return c.CylinderCondition != "" && c.HoseCondition != "" &&
		c.StandCondition != "" && c.FullWeight > 0 && c.ActualWeight > 0
}

// Inspection is one row of an asset's inspection history.
type Inspection struct {
	ID                 int64  `json:"id,omitempty"`
	ExtinguisherID     int64  `json:"extinguisher_id,omitempty"`
	InspectionDate     string `json:"inspectionDate"`
	InspectorName      string `json:"inspectorName,omitempty"`
	Notes              string `json:"notes,omitempty"`
	Status             string `json:"status,omitempty"`
	NextInspectionDate string `json:"next_inspection_date,omitempty"`
}

// CreateAssetInput registers a new extinguisher.
type CreateAssetInput struct {
	Location         string  `json:"location"`
	Block            string  `json:"block"`
	Area             string  `json:"area"`
	Floor            string  `json:"floor"`
	Country          string  `json:"country"`
	State            string  `json:"state"`
	City             string  `json:"city"`
	TypeCapacity     string  `json:"type_capacity"`
	ManufactureYear  int     `json:"manufacture_year"`
	InstallationYear int     `json:"installation_year"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// UpdateAssetInput carries the mutable service fields of PUT /extinguisher/{id}.
type UpdateAssetInput struct {
	Condition
	RefilledDate    string `json:"refilled_date"`
	NextRefillDate  string `json:"next_refill_date"`
	ServicedDate    string `json:"serviced_date"`
	NextServiceDate string `json:"next_service_date"`
	Remarks         string `json:"remarks"`
}

// InspectionInput appends an inspection record for an asset.
type InspectionInput struct {
	ExtinguisherID     int64  `json:"extinguisher_id"`
	InspectionDate     string `json:"inspectionDate"`
	InspectorName      string `json:"inspectorName"`
	Notes              string `json:"notes"`
	Status             string `json:"status"`
	NextInspectionDate string `json:"next_inspection_date"`
}

// ReplacementInput logs a replacement event linking two units.
type ReplacementInput struct {
	OriginalExtinguisherID    int64     `json:"originalExtinguisherId"`
	ReplacementExtinguisherID int64     `json:"replacementExtinguisherId"`
	OriginalCondition         Condition `json:"originalCondition"`
	ReplacementCondition      Condition `json:"replacementCondition"`
	Notes                     string    `json:"notes"`
}
