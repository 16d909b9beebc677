package patient

import (
	"time"

	"github.com/amit001112/HospitalBilling/internal/platform/apperr"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var (
	ErrNotFound = apperr.NotFound("Patient not found")
	ErrHasBills = apperr.Conflict("Patient has existing bills", nil)
)

// Patient is a registered person who may be billed.
type Patient struct {
	ID                int64      `json:"id"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	FatherHusbandName *string    `json:"fatherHusbandName"`
	Age               int        `json:"age"`
	Gender            Gender     `json:"gender"`
	Phone             string     `json:"phone"`
	Email             *string    `json:"email"`
	Address           *string    `json:"address"`
	EmergencyContact  *string    `json:"emergencyContact"`
	BloodGroup        *string    `json:"bloodGroup"`
	MedicalHistory    *string    `json:"medicalHistory"`
	AdmissionDateTime *time.Time `json:"admissionDateTime"`
	DischargeDateTime *time.Time `json:"dischargeDateTime"`
	Status            Status     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// CreateInput is the body of POST /api/patients.
type CreateInput struct {
	FirstName         string     `json:"firstName" validate:"notblank"`
	LastName          string     `json:"lastName" validate:"notblank"`
	FatherHusbandName *string    `json:"fatherHusbandName"`
	Age               int        `json:"age" validate:"min=1,max=120"`
	Gender            Gender     `json:"gender" validate:"oneof=male female other"`
	Phone             string     `json:"phone" validate:"phone"`
	Email             *string    `json:"email" validate:"omitempty,email"`
	Address           *string    `json:"address"`
	EmergencyContact  *string    `json:"emergencyContact"`
	BloodGroup        *string    `json:"bloodGroup"`
	MedicalHistory    *string    `json:"medicalHistory"`
	AdmissionDateTime *time.Time `json:"admissionDateTime"`
	DischargeDateTime *time.Time `json:"dischargeDateTime"`
	Status            Status     `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateInput is the body of PUT /api/patients/:id. Nil fields are left
// unchanged; an empty string clears an optional text field.
type UpdateInput struct {
	FirstName         *string    `json:"firstName" validate:"omitnil,notblank"`
	LastName          *string    `json:"lastName" validate:"omitnil,notblank"`
	FatherHusbandName *string    `json:"fatherHusbandName"`
	Age               *int       `json:"age" validate:"omitnil,min=1,max=120"`
	Gender            *Gender    `json:"gender" validate:"omitnil,oneof=male female other"`
	Phone             *string    `json:"phone" validate:"omitnil,phone"`
	Email             *string    `json:"email" validate:"omitempty,email"`
	Address           *string    `json:"address"`
	EmergencyContact  *string    `json:"emergencyContact"`
	BloodGroup        *string    `json:"bloodGroup"`
	MedicalHistory    *string    `json:"medicalHistory"`
	AdmissionDateTime *time.Time `json:"admissionDateTime"`
	DischargeDateTime *time.Time `json:"dischargeDateTime"`
	Status            *Status    `json:"status" validate:"omitnil,oneof=active inactive"`
}

func (in *CreateInput) toPatient() *Patient {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return &Patient{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		FatherHusbandName: blankToNil(in.FatherHusbandName),
		Age:               in.Age,
		Gender:            in.Gender,
		Phone:             in.Phone,
		Email:             blankToNil(in.Email),
		Address:           blankToNil(in.Address),
		EmergencyContact:  blankToNil(in.EmergencyContact),
		BloodGroup:        blankToNil(in.BloodGroup),
		MedicalHistory:    blankToNil(in.MedicalHistory),
		AdmissionDateTime: in.AdmissionDateTime,
		DischargeDateTime: in.DischargeDateTime,
		Status:            status,
	}
}

// apply merges the provided fields into p.
func (in *UpdateInput) apply(p *Patient) {
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		p.LastName = *in.LastName
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.AdmissionDateTime != nil {
		p.AdmissionDateTime = in.AdmissionDateTime
	}
	if in.DischargeDateTime != nil {
		p.DischargeDateTime = in.DischargeDateTime
	}
	for _, f := range []struct {
		in  *string
		dst **string
	}{
		{in.FatherHusbandName, &p.FatherHusbandName},
		{in.Email, &p.Email},
		{in.Address, &p.Address},
		{in.EmergencyContact, &p.EmergencyContact},
		{in.BloodGroup, &p.BloodGroup},
		{in.MedicalHistory, &p.MedicalHistory},
	} {
		if f.in != nil {
			*f.dst = blankToNil(f.in)
		}
	}
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// checkStay reports a discharge recorded before admission.
func checkStay(p *Patient) *apperr.FieldError {
	if p.AdmissionDateTime != nil && p.DischargeDateTime != nil &&
		p.DischargeDateTime.Before(*p.AdmissionDateTime) {
		fe := apperr.Field("Discharge must not be before admission", "dischargeDateTime")
		return &fe
	}
	return nil
}
