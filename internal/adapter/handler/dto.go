package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/rental_backoffice/internal/core/domain"
	"github.com/srgjo27/rental_backoffice/internal/core/services"
)

type createReservationRequest struct {
	UnitID           uuid.UUID        `json:"unit_id"`
	GuestName        string           `json:"guest_name"`
	GuestPhone       string           `json:"guest_phone"`
	GuestPeopleCount int              `json:"guest_people_count"`
	BedsRequired     *int             `json:"beds_required"`
	HasParking       bool             `json:"has_parking"`
	CheckIn          string           `json:"check_in"`
	CheckOut         string           `json:"check_out"`
	TotalAmount      *decimal.Decimal `json:"total_amount"`
	DepositAmount    *decimal.Decimal `json:"deposit_amount"`
	CleaningFee      *decimal.Decimal `json:"cleaning_fee"`
	AmenitiesFee     *decimal.Decimal `json:"amenities_fee"`
	Currency         string           `json:"currency"`
	PaymentStatus    string           `json:"payment_status"`
	Source           string           `json:"source"`
	Notes            string           `json:"notes"`

	services.Overrides
}

func (r createReservationRequest) toCommand(tenantID uuid.UUID) (services.CreateReservationCommand, error) {
	checkIn, err := parseDateField("check_in", r.CheckIn)
	if err != nil {
		return services.CreateReservationCommand{}, err
	}
	checkOut, err := parseDateField("check_out", r.CheckOut)
	if err != nil {
		return services.CreateReservationCommand{}, err
	}

	return services.CreateReservationCommand{
		TenantID:         tenantID,
		UnitID:           r.UnitID,
		GuestName:        r.GuestName,
		GuestPhone:       r.GuestPhone,
		GuestPeopleCount: r.GuestPeopleCount,
		BedsRequired:     r.BedsRequired,
		HasParking:       r.HasParking,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		TotalAmount:      r.TotalAmount,
		DepositAmount:    r.DepositAmount,
		CleaningFee:      r.CleaningFee,
		AmenitiesFee:     r.AmenitiesFee,
		Currency:         domain.Currency(r.Currency),
		PaymentStatus:    domain.PaymentStatus(r.PaymentStatus),
		Source:           domain.Source(r.Source),
		Notes:            r.Notes,
		Overrides:        r.Overrides,
	}, nil
}

type updateReservationRequest struct {
	UnitID           *uuid.UUID       `json:"unit_id"`
	GuestName        *string          `json:"guest_name"`
	GuestPhone       *string          `json:"guest_phone"`
	GuestPeopleCount *int             `json:"guest_people_count"`
	BedsRequired     *int             `json:"beds_required"`
	HasParking       *bool            `json:"has_parking"`
	CheckIn          *string          `json:"check_in"`
	CheckOut         *string          `json:"check_out"`
	TotalAmount      *decimal.Decimal `json:"total_amount"`
	DepositAmount    *decimal.Decimal `json:"deposit_amount"`
	CleaningFee      *decimal.Decimal `json:"cleaning_fee"`
	AmenitiesFee     *decimal.Decimal `json:"amenities_fee"`
	Currency         *string          `json:"currency"`
	PaymentStatus    *string          `json:"payment_status"`
	Status           *string          `json:"status"`
	Source           *string          `json:"source"`
	Notes            *string          `json:"notes"`

	services.Overrides
}

func (r updateReservationRequest) toCommand(tenantID, id uuid.UUID) (services.UpdateReservationCommand, error) {
	cmd := services.UpdateReservationCommand{
		TenantID:         tenantID,
		ID:               id,
		UnitID:           r.UnitID,
		GuestName:        r.GuestName,
		GuestPhone:       r.GuestPhone,
		GuestPeopleCount: r.GuestPeopleCount,
		BedsRequired:     r.BedsRequired,
		HasParking:       r.HasParking,
		TotalAmount:      r.TotalAmount,
		DepositAmount:    r.DepositAmount,
		CleaningFee:      r.CleaningFee,
		AmenitiesFee:     r.AmenitiesFee,
		Notes:            r.Notes,
		Overrides:        r.Overrides,
	}

	if r.CheckIn != nil {
		t, err := parseDateField("check_in", *r.CheckIn)
		if err != nil {
			return cmd, err
		}
		cmd.CheckIn = &t
	}
	if r.CheckOut != nil {
		t, err := parseDateField("check_out", *r.CheckOut)
		if err != nil {
			return cmd, err
		}
		cmd.CheckOut = &t
	}
	if r.Currency != nil {
		v := domain.Currency(*r.Currency)
		cmd.Currency = &v
	}
	if r.PaymentStatus != nil {
		v := domain.PaymentStatus(*r.PaymentStatus)
		cmd.PaymentStatus = &v
	}
	if r.Status != nil {
		v := domain.ReservationStatus(*r.Status)
		cmd.Status = &v
	}
	if r.Source != nil {
		v := domain.Source(*r.Source)
		cmd.Source = &v
	}

	return cmd, nil
}

type reservationResponse struct {
	ID               uuid.UUID       `json:"id"`
	UnitID           uuid.UUID       `json:"unit_id"`
	GroupID          *uuid.UUID      `json:"group_id"`
	CheckIn          string          `json:"check_in"`
	CheckOut         string          `json:"check_out"`
	Nights           int             `json:"nights"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	CleaningFee      decimal.Decimal `json:"cleaning_fee"`
	AmenitiesFee     decimal.Decimal `json:"amenities_fee"`
	Currency         string          `json:"currency"`
	PaymentStatus    string          `json:"payment_status"`
	Status           string          `json:"status"`
	GuestName        string          `json:"guest_name"`
	GuestPhone       string          `json:"guest_phone"`
	GuestPeopleCount int             `json:"guest_people_count"`
	BedsRequired     int             `json:"beds_required"`
	HasParking       bool            `json:"has_parking"`
	Source           string          `json:"source"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type stayResponse struct {
	GroupID  *uuid.UUID            `json:"group_id"`
	Segments []reservationResponse `json:"segments"`
}

func toReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:               r.ID,
		UnitID:           r.UnitID,
		GroupID:          r.GroupID,
		CheckIn:          r.CheckIn.Format(domain.DateLayout),
		CheckOut:         r.CheckOut.Format(domain.DateLayout),
		Nights:           r.Nights(),
		TotalAmount:      r.TotalAmount,
		DepositAmount:    r.DepositAmount,
		CleaningFee:      r.CleaningFee,
		AmenitiesFee:     r.AmenitiesFee,
		Currency:         string(r.Currency),
		PaymentStatus:    string(r.PaymentStatus),
		Status:           string(r.Status),
		GuestName:        r.GuestName,
		GuestPhone:       r.GuestPhone,
		GuestPeopleCount: r.GuestPeopleCount,
		BedsRequired:     r.BedsRequired,
		HasParking:       r.HasParking,
		Source:           string(r.Source),
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toReservationResponses(rs []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationResponse(r))
	}
	return out
}

func toStayResponse(res *services.ReservationResult) stayResponse {
	return stayResponse{GroupID: res.GroupID, Segments: toReservationResponses(res.Segments)}
}

func parseDateField(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "is required"}
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}
	return t, nil
}
