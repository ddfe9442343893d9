// File: models/forms.go
package models

// ----------------------- form payloads -----------------------

// VolunteerRequest is posted to the "volunteer" collection.
type VolunteerRequest struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	Pincode      string `json:"pincode" form:"pincode"`
	Interest     string `json:"interest" form:"interest"`         // seva area
	Availability string `json:"availability" form:"availability"` // free text
	Message      string `json:"message,omitempty" form:"message"`
}

// VolunteerInterests are the seva areas offered on the form.
var VolunteerInterests = []string{"Bala Vihar", "Events & Logistics", "Kitchen Seva", "Media & Outreach", "Teaching", "Other"}

// Validate checks the volunteer form before submission.
func (v VolunteerRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	errs.required("name", v.Name)
	errs.email("email", v.Email)
	errs.phone("phone", v.Phone)
	errs.pincode("pincode", v.Pincode)
	errs.oneOf("interest", v.Interest, VolunteerInterests)
	return errs.orNil()
}

// DonationRequest is posted to the "donations" collection.
type DonationRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Amount  int    `json:"amount" form:"amount"` // whole rupees
	PAN     string `json:"pan,omitempty" form:"pan"`
	Address string `json:"address" form:"address"`
	Pincode string `json:"pincode" form:"pincode"`
	Purpose string `json:"purpose" form:"purpose"`
}

// DonationPurposes lists the funds a donor may choose.
var DonationPurposes = []string{"General Fund", "Bala Vihar", "Temple Maintenance", "Annadanam", "Events"}

// Validate checks the donation form before submission.
func (d DonationRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	errs.required("name", d.Name)
	errs.email("email", d.Email)
	errs.phone("phone", d.Phone)
	errs.pincode("pincode", d.Pincode)
	errs.required("address", d.Address)
	errs.oneOf("purpose", d.Purpose, DonationPurposes)
	if d.Amount <= 0 {
		errs["amount"] = "Please enter a donation amount."
	}
	if d.PAN != "" && !panPattern.MatchString(d.PAN) {
		errs["pan"] = "PAN must look like ABCDE1234F."
	}
	return errs.orNil()
}
