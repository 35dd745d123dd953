package domain

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

type VacationType string

const (
	VacationRelax     VacationType = "relax"
	VacationAdventure VacationType = "adventure"
	VacationCityBreak VacationType = "city_break"
	VacationFamily    VacationType = "family"
)

// VacationTypes lists the categories in display order.
var VacationTypes = []VacationType{VacationRelax, VacationAdventure, VacationCityBreak, VacationFamily}

func ParseVacationType(s string) (VacationType, bool) {
	switch VacationType(s) {
	case VacationRelax, VacationAdventure, VacationCityBreak, VacationFamily:
		return VacationType(s), true
	default:
		return "", false
	}
}

func (v VacationType) Label() string {
	switch v {
	case VacationRelax:
		return "Relax & Wellness"
	case VacationAdventure:
		return "Adventure"
	case VacationCityBreak:
		return "City Break"
	case VacationFamily:
		return "Family Vacation"
	default:
		return string(v)
	}
}

type Accommodation struct {
	ID            uuid.UUID    `json:"id"`
	HostID        uuid.UUID    `json:"hostId"`
	Name          string       `json:"name"`
	Location      string       `json:"location"`
	Description   string       `json:"description"`
	VacationType  VacationType `json:"vacationType"`
	PricePerNight Money        `json:"pricePerNight"`
	ImageURL      *string      `json:"imageUrl,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	Host *Party `json:"host,omitempty"`
}

// AccommodationInput is the writable part of a listing.
type AccommodationInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Location      string  `json:"location" validate:"required,max=200"`
	Description   string  `json:"description" validate:"required"`
	VacationType  string  `json:"vacationType" validate:"required,oneof=relax adventure city_break family"`
	PricePerNight Money   `json:"pricePerNight" validate:"required,gte=0,lte=9999999999"`
	ImageURL      *string `json:"imageUrl" validate:"omitempty,url"`
}

// Apply copies the input onto a listing. The input must already be valid.
func (in AccommodationInput) Apply(a *Accommodation) {
	a.Name = in.Name
	a.Location = in.Location
	a.Description = in.Description
	a.VacationType = VacationType(in.VacationType)
	a.PricePerNight = in.PricePerNight
	a.ImageURL = in.ImageURL
	if a.ImageURL != nil && *a.ImageURL == "" {
		a.ImageURL = nil
	}
}

// FilterByVacationType yields the accommodations of the given type in input
// order. A nil type returns seq itself.
func FilterByVacationType(seq iter.Seq[Accommodation], vt *VacationType) iter.Seq[Accommodation] {
	if vt == nil {
		return seq
	}
	want := *vt
	return func(yield func(Accommodation) bool) {
		for a := range seq {
			if a.VacationType != want {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}
