package usecase

import (
	"encoding/json"
	"fmt"
	"time"
)

// RegistrationForm is the structured document attached to the acknowledgment
// email sent to unknown senders. The recipient fills it in and sends it back;
// sales uses it to qualify the lead.
type RegistrationForm struct {
	InquiryID   string                  `json:"inquiry_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	CompanyInfo RegistrationSection     `json:"company_info"`
	ContactInfo RegistrationSection     `json:"contact_info"`
	Business    RegistrationSection     `json:"business_requirements"`
	Additional  RegistrationSection     `json:"additional_info"`
}

type RegistrationSection struct {
	Title  string              `json:"title"`
	Fields []RegistrationField `json:"fields"`
}

type RegistrationField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Value    string `json:"value,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// BuildRegistrationForm pre-fills what identity extraction already knows and
// leaves the rest blank for the sender.
func BuildRegistrationForm(inquiryID, senderName, senderEmail, companyName string) ([]byte, error) {
	form := RegistrationForm{
		InquiryID:   inquiryID,
		GeneratedAt: time.Now().UTC(),
		CompanyInfo: RegistrationSection{
			Title: "Company Information",
			Fields: []RegistrationField{
				{Name: "company_name", Label: "Company name", Value: companyName, Required: true},
				{Name: "industry", Label: "Industry", Required: true},
				{Name: "company_size", Label: "Number of employees"},
				{Name: "website", Label: "Website"},
			},
		},
		ContactInfo: RegistrationSection{
			Title: "Contact Information",
			Fields: []RegistrationField{
				{Name: "full_name", Label: "Full name", Value: senderName, Required: true},
				{Name: "email", Label: "Email address", Value: senderEmail, Required: true},
				{Name: "phone", Label: "Phone number"},
				{Name: "job_title", Label: "Job title"},
			},
		},
		Business: RegistrationSection{
			Title: "Business Requirements",
			Fields: []RegistrationField{
				{Name: "services_of_interest", Label: "Services of interest", Required: true},
				{Name: "budget_range", Label: "Estimated budget range"},
				{Name: "timeline", Label: "Expected timeline"},
			},
		},
		Additional: RegistrationSection{
			Title: "Additional Information",
			Fields: []RegistrationField{
				{Name: "how_found_us", Label: "How did you hear about us?"},
				{Name: "notes", Label: "Anything else we should know"},
			},
		},
	}

	payload, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal registration form: %w", err)
	}
	return payload, nil
}

// RegistrationFormFilename names the attachment after the inquiry so replies
// can be matched back.
func RegistrationFormFilename(inquiryID string) string {
	return fmt.Sprintf("registration-form-%s.json", inquiryID)
}
