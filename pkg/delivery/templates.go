package delivery

import (
	"bytes"
	"html/template"
)

var (
	interestEmailTmpl = template.Must(template.New("interest").Parse(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto">
<h2 style="color:#b45309">You have received a new interest</h2>
<p>Dear {{.ReceiverName}},</p>
<p><strong>{{.SenderName}}</strong> has expressed interest in your profile.</p>
<table cellpadding="4">
{{if .SenderCity}}<tr><td>City</td><td>{{.SenderCity}}</td></tr>{{end}}
{{if .SenderState}}<tr><td>State</td><td>{{.SenderState}}</td></tr>{{end}}
{{if .SenderFatherName}}<tr><td>Father's name</td><td>{{.SenderFatherName}}</td></tr>{{end}}
{{if .SenderDOB}}<tr><td>Date of birth</td><td>{{.SenderDOB}}</td></tr>{{end}}
</table>
{{if .Message}}<p><em>"{{.Message}}"</em></p>{{end}}
<p>Sign in to Mauryavansham to view the profile and respond.</p>
</div>`))

	enquiryEmailTmpl = template.Must(template.New("enquiry").Parse(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto">
<h2 style="color:#b45309">New enquiry for {{.BusinessName}}</h2>
<p><strong>{{.SenderName}}</strong>{{if .SenderEmail}} ({{.SenderEmail}}){{end}} wrote:</p>
<blockquote>{{.Comment}}</blockquote>
</div>`))
)

// InterestEmailData fills the interest email
type InterestEmailData struct {
	ReceiverName     string
	SenderName       string
	SenderCity       string
	SenderState      string
	SenderFatherName string
	SenderDOB        string
	Message          string
}

// EnquiryEmailData fills the business enquiry email
type EnquiryEmailData struct {
	BusinessName string
	SenderName   string
	SenderEmail  string
	Comment      string
}

// RenderInterestEmail renders the interest email body
func RenderInterestEmail(d InterestEmailData) (string, error) {
	var buf bytes.Buffer
	if err := interestEmailTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderEnquiryEmail renders the business enquiry email body
func RenderEnquiryEmail(d EnquiryEmailData) (string, error) {
	var buf bytes.Buffer
	if err := enquiryEmailTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
