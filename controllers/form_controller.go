// file: controllers/form_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cmv-site/logger"
	"cmv-site/middleware"
	"cmv-site/models"
	"cmv-site/services"
)

// DonationSettings configure the UPI QR on the donate page.
type DonationSettings struct {
	UPIID string
	Payee string
}

// FormController serves the volunteer, donation and CGCC registration
// forms. Successful submissions clear the form; failures keep the input.
type FormController struct {
	Forms    services.FormServiceInterface
	Donation DonationSettings
	// QREncoder is nil in production (real encoder).
	QREncoder services.QREncoder
}

// NewFormController wires the public forms.
func NewFormController(forms services.FormServiceInterface, donation DonationSettings) *FormController {
	if donation.Payee == "" {
		donation.Payee = SiteName
	}
	return &FormController{Forms: forms, Donation: donation}
}

// ---------------- volunteer ----------------

func (fc *FormController) VolunteerPage(c *gin.Context) {
	fc.renderVolunteer(c, http.StatusOK, models.VolunteerRequest{}, nil, "")
}

func (fc *FormController) SubmitVolunteer(c *gin.Context) {
	var req models.VolunteerRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn.Printf("SubmitVolunteer: bind failed: %v", err)
	}
	err := fc.Forms.SubmitVolunteer(c.Request.Context(), middleware.VisitorID(c), req)
	if err != nil {
		fc.renderVolunteer(c, statusFor(err), req, err, "")
		return
	}
	fc.renderVolunteer(c, http.StatusOK, models.VolunteerRequest{}, nil,
		"Thank you for offering your seva! We will contact you soon.")
}

func (fc *FormController) renderVolunteer(c *gin.Context, status int, req models.VolunteerRequest, err error, success string) {
	render(c, status, "volunteer.html", gin.H{
		"Title":     "Volunteer",
		"Form":      req,
		"Interests": models.VolunteerInterests,
		"Errors":    fieldErrors(err),
		"Error":     userMessage(err),
		"Success":   success,
	})
}

// ---------------- donation ----------------

func (fc *FormController) DonatePage(c *gin.Context) {
	fc.renderDonate(c, http.StatusOK, models.DonationRequest{}, nil, "")
}

func (fc *FormController) SubmitDonation(c *gin.Context) {
	var req models.DonationRequest
	if err := c.ShouldBind(&req); err != nil {
		// a non-numeric amount lands here; validation reports it
		logger.Warn.Printf("SubmitDonation: bind failed: %v", err)
	}
	err := fc.Forms.SubmitDonation(c.Request.Context(), middleware.VisitorID(c), req)
	if err != nil {
		fc.renderDonate(c, statusFor(err), req, err, "")
		return
	}
	fc.renderDonate(c, http.StatusOK, models.DonationRequest{}, nil,
		"Thank you for your donation pledge. A receipt will be emailed to you.")
}

func (fc *FormController) renderDonate(c *gin.Context, status int, req models.DonationRequest, err error, success string) {
	render(c, status, "donate.html", gin.H{
		"Title":    "Donate",
		"Form":     req,
		"Purposes": models.DonationPurposes,
		"HasUPI":   fc.Donation.UPIID != "",
		"UPIID":    fc.Donation.UPIID,
		"Errors":   fieldErrors(err),
		"Error":    userMessage(err),
		"Success":  success,
	})
}

// DonationQR serves a PNG QR code for a UPI payment. ?amount= pre-fills
// the amount.
func (fc *FormController) DonationQR(c *gin.Context) {
	amount := 0
	if v := c.Query("amount"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.String(http.StatusBadRequest, "invalid amount")
			return
		}
		amount = n
	}
	link, err := services.UPIPaymentLink(fc.Donation.UPIID, fc.Donation.Payee, amount)
	if err != nil {
		logger.Warn.Printf("DonationQR: %v", err)
		c.String(http.StatusNotFound, "UPI donations are not configured")
		return
	}

	logger.Info.Println("DonationQR: Generating QR code")
	qrBytes, err := services.GenerateQRCode(link, 300, 300, fc.QREncoder)
	if err != nil {
		logger.Error.Printf("DonationQR: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"donate-upi.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}

// ---------------- CGCC registration ----------------

func (fc *FormController) RegisterPage(c *gin.Context) {
	fc.renderRegister(c, http.StatusOK, models.Registration{}, nil, "")
}

func (fc *FormController) SubmitRegistration(c *gin.Context) {
	var req models.Registration
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn.Printf("SubmitRegistration: bind failed: %v", err)
	}
	err := fc.Forms.SubmitRegistration(c.Request.Context(), middleware.VisitorID(c), req)
	if err != nil {
		fc.renderRegister(c, statusFor(err), req, err, "")
		return
	}
	fc.renderRegister(c, http.StatusOK, models.Registration{}, nil,
		"Registration received. See you at CGCC 2025!")
}

func (fc *FormController) renderRegister(c *gin.Context, status int, req models.Registration, err error, success string) {
	render(c, status, "register.html", gin.H{
		"Title":      "CGCC 2025 Registration",
		"Form":       req,
		"Categories": models.RegistrationCategories,
		"Errors":     fieldErrors(err),
		"Error":      userMessage(err),
		"Success":    success,
	})
}
