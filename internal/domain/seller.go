package domain

import (
	"time"

	"github.com/spec-kit/seller-admin-service/internal/temporal"
)

// SellerAccount is the stable 1:1 link between an Account and the seller
// aggregate. Versioned SellerInfo rows hang off of it; it is created once at
// signup and never re-created.
type SellerAccount struct {
	ID        int64
	AccountID int64
	CreatedAt time.Time
}

// SellerInfo is one version of a seller's profile. Every edit or status change
// closes the current version and opens a new one; rows are never updated in
// any field other than close_time.
type SellerInfo struct {
	ID              int64
	SellerAccountID int64
	Status          SellerStatus

	NameKR       string
	NameEN       string
	CenterNumber string

	ProfileImageURL        *string
	BackgroundImageURL     *string
	AppUserID              *int64
	CEOName                *string
	CompanyName            *string
	BusinessNumber         *string
	CertificateImageURL    *string
	OnlineBusinessNumber   *string
	OnlineBusinessImageURL *string
	ShortDescription       *string
	LongDescription        *string
	SiteURL                *string
	KakaoID                *string
	InstaID                *string
	ZipCode                *string
	Address                *string
	DetailAddress          *string
	WeekdayStartTime       *string
	WeekdayEndTime         *string
	WeekendStartTime       *string
	WeekendEndTime         *string
	BankName               *string
	BankHolderName         *string
	BankAccountNumber      *string

	ModifierID int64
	Window     temporal.Window

	Managers []ManagerInfo
}

// Open reports whether this version is the one currently in effect.
func (s *SellerInfo) Open() bool {
	return s.Window.Open()
}

// ManagerInfo is a contact-person entry scoped to exactly one SellerInfo
// version, ranked 1..3. Rows are never shared across versions.
type ManagerInfo struct {
	ID            int64
	SellerInfoID  int64
	Name          string
	ContactNumber string
	Email         string
	Ranking       int
}

// MaxManagers bounds the contact entries per version.
const MaxManagers = 3
