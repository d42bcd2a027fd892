package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dwiprasetya/laundrypos-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	OutletID *uuid.UUID
	Role     enums.StaffRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to staff clients.
// Cashiers carry the outlet they are bound to; owners have no outlet claim
// and may act on any outlet.
type AccessTokenClaims struct {
	UserID   uuid.UUID       `json:"user_id"`
	OutletID *uuid.UUID      `json:"outlet_id,omitempty"`
	Role     enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
