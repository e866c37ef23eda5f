package dto

import (
	"time"

	"github.com/spec-kit/seller-admin-service/internal/domain"
	"github.com/spec-kit/seller-admin-service/internal/service"
)

// ManagerPayload is one contact-person entry of the edit form.
type ManagerPayload struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Ranking       int    `json:"ranking"`
}

// ReviseProfileRequest is the full seller edit form.
type ReviseProfileRequest struct {
	Status domain.SellerStatus `json:"status"`

	NameKR       string `json:"name_kr"`
	NameEN       string `json:"name_en"`
	CenterNumber string `json:"center_number"`

	AppUserAppID *string `json:"app_user_app_id"`

	ProfileImageURL        *string `json:"profile_image_url"`
	BackgroundImageURL     *string `json:"background_image_url"`
	CEOName                *string `json:"ceo_name"`
	CompanyName            *string `json:"company_name"`
	BusinessNumber         *string `json:"business_number"`
	CertificateImageURL    *string `json:"certificate_image_url"`
	OnlineBusinessNumber   *string `json:"online_business_number"`
	OnlineBusinessImageURL *string `json:"online_business_image_url"`
	ShortDescription       *string `json:"short_description"`
	LongDescription        *string `json:"long_description"`
	SiteURL                *string `json:"site_url"`
	KakaoID                *string `json:"kakao_id"`
	InstaID                *string `json:"insta_id"`
	ZipCode                *string `json:"zip_code"`
	Address                *string `json:"address"`
	DetailAddress          *string `json:"detail_address"`
	WeekdayStartTime       *string `json:"weekday_start_time"`
	WeekdayEndTime         *string `json:"weekday_end_time"`
	WeekendStartTime       *string `json:"weekend_start_time"`
	WeekendEndTime         *string `json:"weekend_end_time"`
	BankName               *string `json:"bank_name"`
	BankHolderName         *string `json:"bank_holder_name"`
	BankAccountNumber      *string `json:"bank_account_number"`

	Managers []ManagerPayload `json:"managers"`
}

// ToInput converts the request into the service input shape.
func (r ReviseProfileRequest) ToInput() service.ProfileInput {
	managers := make([]service.ManagerInput, 0, len(r.Managers))
	for _, m := range r.Managers {
		managers = append(managers, service.ManagerInput{
			Name:          m.Name,
			ContactNumber: m.ContactNumber,
			Email:         m.Email,
			Ranking:       m.Ranking,
		})
	}
	return service.ProfileInput{
		Status:                 r.Status,
		NameKR:                 r.NameKR,
		NameEN:                 r.NameEN,
		CenterNumber:           r.CenterNumber,
		AppUserAppID:           r.AppUserAppID,
		ProfileImageURL:        r.ProfileImageURL,
		BackgroundImageURL:     r.BackgroundImageURL,
		CEOName:                r.CEOName,
		CompanyName:            r.CompanyName,
		BusinessNumber:         r.BusinessNumber,
		CertificateImageURL:    r.CertificateImageURL,
		OnlineBusinessNumber:   r.OnlineBusinessNumber,
		OnlineBusinessImageURL: r.OnlineBusinessImageURL,
		ShortDescription:       r.ShortDescription,
		LongDescription:        r.LongDescription,
		SiteURL:                r.SiteURL,
		KakaoID:                r.KakaoID,
		InstaID:                r.InstaID,
		ZipCode:                r.ZipCode,
		Address:                r.Address,
		DetailAddress:          r.DetailAddress,
		WeekdayStartTime:       r.WeekdayStartTime,
		WeekdayEndTime:         r.WeekdayEndTime,
		WeekendStartTime:       r.WeekendStartTime,
		WeekendEndTime:         r.WeekendEndTime,
		BankName:               r.BankName,
		BankHolderName:         r.BankHolderName,
		BankAccountNumber:      r.BankAccountNumber,
		Managers:               managers,
	}
}

// ChangeStatusRequest payload for the standalone transition endpoint.
type ChangeStatusRequest struct {
	Status domain.SellerStatus `json:"status"`
}

// RevisionResponse reports an accepted version bump.
type RevisionResponse struct {
	SellerAccountID int64               `json:"seller_account_id"`
	VersionID       int64               `json:"version_id"`
	Status          domain.SellerStatus `json:"status"`
	StatusChanged   bool                `json:"status_changed"`
}

// ManagerResponse is one manager row of a snapshot.
type ManagerResponse struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	Ranking       int    `json:"ranking"`
}

// StatusChangeResponse is one audit trail row.
type StatusChangeResponse struct {
	Status    domain.SellerStatus `json:"status"`
	ChangedAt time.Time           `json:"changed_at"`
	Modifier  int64               `json:"modifier"`
}

// SellerInfoResponse is the open-version snapshot.
type SellerInfoResponse struct {
	SellerAccountID int64               `json:"seller_account_id"`
	VersionID       int64               `json:"version_id"`
	Status          domain.SellerStatus `json:"status"`

	NameKR       string `json:"name_kr"`
	NameEN       string `json:"name_en"`
	CenterNumber string `json:"center_number"`

	ProfileImageURL        *string `json:"profile_image_url"`
	BackgroundImageURL     *string `json:"background_image_url"`
	CEOName                *string `json:"ceo_name"`
	CompanyName            *string `json:"company_name"`
	BusinessNumber         *string `json:"business_number"`
	CertificateImageURL    *string `json:"certificate_image_url"`
	OnlineBusinessNumber   *string `json:"online_business_number"`
	OnlineBusinessImageURL *string `json:"online_business_image_url"`
	ShortDescription       *string `json:"short_description"`
	LongDescription        *string `json:"long_description"`
	SiteURL                *string `json:"site_url"`
	KakaoID                *string `json:"kakao_id"`
	InstaID                *string `json:"insta_id"`
	ZipCode                *string `json:"zip_code"`
	Address                *string `json:"address"`
	DetailAddress          *string `json:"detail_address"`
	WeekdayStartTime       *string `json:"weekday_start_time"`
	WeekdayEndTime         *string `json:"weekday_end_time"`
	WeekendStartTime       *string `json:"weekend_start_time"`
	WeekendEndTime         *string `json:"weekend_end_time"`
	BankName               *string `json:"bank_name"`
	BankHolderName         *string `json:"bank_holder_name"`
	BankAccountNumber      *string `json:"bank_account_number"`

	StartTime time.Time `json:"start_time"`

	Managers []ManagerResponse      `json:"managers"`
	History  []StatusChangeResponse `json:"status_change_histories"`
}

// FromSnapshot converts a service snapshot into the response shape.
func FromSnapshot(snapshot *service.SellerSnapshot) SellerInfoResponse {
	info := snapshot.Info
	resp := SellerInfoResponse{
		SellerAccountID:        info.SellerAccountID,
		VersionID:              info.ID,
		Status:                 info.Status,
		NameKR:                 info.NameKR,
		NameEN:                 info.NameEN,
		CenterNumber:           info.CenterNumber,
		ProfileImageURL:        info.ProfileImageURL,
		BackgroundImageURL:     info.BackgroundImageURL,
		CEOName:                info.CEOName,
		CompanyName:            info.CompanyName,
		BusinessNumber:         info.BusinessNumber,
		CertificateImageURL:    info.CertificateImageURL,
		OnlineBusinessNumber:   info.OnlineBusinessNumber,
		OnlineBusinessImageURL: info.OnlineBusinessImageURL,
		ShortDescription:       info.ShortDescription,
		LongDescription:        info.LongDescription,
		SiteURL:                info.SiteURL,
		KakaoID:                info.KakaoID,
		InstaID:                info.InstaID,
		ZipCode:                info.ZipCode,
		Address:                info.Address,
		DetailAddress:          info.DetailAddress,
		WeekdayStartTime:       info.WeekdayStartTime,
		WeekdayEndTime:         info.WeekdayEndTime,
		WeekendStartTime:       info.WeekendStartTime,
		WeekendEndTime:         info.WeekendEndTime,
		BankName:               info.BankName,
		BankHolderName:         info.BankHolderName,
		BankAccountNumber:      info.BankAccountNumber,
		StartTime:              info.Window.Start,
	}
	for _, m := range info.Managers {
		resp.Managers = append(resp.Managers, ManagerResponse{
			Name:          m.Name,
			ContactNumber: m.ContactNumber,
			Email:         m.Email,
			Ranking:       m.Ranking,
		})
	}
	for _, h := range snapshot.History {
		resp.History = append(resp.History, StatusChangeResponse{
			Status:    h.Status,
			ChangedAt: h.ChangedAt,
			Modifier:  h.ModifierID,
		})
	}
	return resp
}

// SellerListItemResponse is one row of the master listing.
type SellerListItemResponse struct {
	SellerAccountID    int64                 `json:"seller_account_id"`
	AccountNo          int64                 `json:"account_no"`
	LoginID            string                `json:"login_id"`
	NameKR             string                `json:"name_kr"`
	NameEN             string                `json:"name_en"`
	Status             domain.SellerStatus   `json:"status"`
	ManagerName        string                `json:"manager_name"`
	ManagerNumber      string                `json:"manager_number"`
	RegisteredAt       time.Time             `json:"registered_at"`
	AllowedTransitions []domain.SellerStatus `json:"allowed_transitions"`
}

// SellerListResponse wraps the listing with its total.
type SellerListResponse struct {
	Sellers []SellerListItemResponse `json:"sellers"`
	Total   int64                    `json:"total"`
}

// FromListItems converts service list items into the response shape.
func FromListItems(items []service.SellerListItem, total int64) SellerListResponse {
	resp := SellerListResponse{Total: total, Sellers: make([]SellerListItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Sellers = append(resp.Sellers, SellerListItemResponse{
			SellerAccountID:    item.SellerAccountID,
			AccountNo:          item.AccountNo,
			LoginID:            item.LoginID,
			NameKR:             item.NameKR,
			NameEN:             item.NameEN,
			Status:             item.Status,
			ManagerName:        item.ManagerName,
			ManagerNumber:      item.ManagerNumber,
			RegisteredAt:       item.RegisteredAt,
			AllowedTransitions: item.AllowedTransitions,
		})
	}
	return resp
}
