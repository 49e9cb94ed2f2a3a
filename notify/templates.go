package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template IDs accepted by Render.
const (
	TemplatePropertyInquiry   = "propertyInquiry"
	TemplateInquiryResponse   = "inquiryResponse"
	TemplateMeetingScheduled  = "meetingScheduled"
	TemplatePropertyModerated = "propertyModerated"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]mailTemplate{
	TemplatePropertyInquiry: {
		subject: "New Property Inquiry - LAND OVER",
		body: template.Must(template.New(TemplatePropertyInquiry).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hi {{.ownerName}},</h2>
  <p>You have a new inquiry for <strong>{{.propertyTitle}}</strong>.</p>
  <p><strong>From:</strong> {{.inquirerName}} ({{.inquirerEmail}})</p>
  <p><strong>Type:</strong> {{.inquiryType}}</p>
  <p><strong>Message:</strong></p>
  <blockquote>{{.message}}</blockquote>
  <p><a href="{{.dashboardUrl}}">View in your dashboard</a></p>
</div>`)),
	},
	TemplateInquiryResponse: {
		subject: "Response to Your Property Inquiry - LAND OVER",
		body: template.Must(template.New(TemplateInquiryResponse).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hi {{.inquirerName}},</h2>
  <p>The owner of <strong>{{.propertyTitle}}</strong> has responded to your inquiry:</p>
  <blockquote>{{.responseMessage}}</blockquote>
  <p><a href="{{.dashboardUrl}}">View in your dashboard</a></p>
</div>`)),
	},
	TemplateMeetingScheduled: {
		subject: "Meeting Scheduled - LAND OVER",
		body: template.Must(template.New(TemplateMeetingScheduled).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hi {{.inquirerName}},</h2>
  <p>A {{.meetingType}} meeting has been scheduled for <strong>{{.propertyTitle}}</strong>.</p>
  <p><strong>Date:</strong> {{.meetingDate}}<br>
     <strong>Time:</strong> {{.meetingTime}}<br>
     <strong>Location:</strong> {{.location}}</p>
  <p><a href="{{.dashboardUrl}}">View in your dashboard</a></p>
</div>`)),
	},
	TemplatePropertyModerated: {
		subject: "Your Listing Was Reviewed - LAND OVER",
		body: template.Must(template.New(TemplatePropertyModerated).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hi {{.ownerName}},</h2>
  <p>Your listing <strong>{{.propertyTitle}}</strong> was {{.decision}}.</p>
  {{if .reason}}<p><strong>Reason:</strong> {{.reason}}</p>{{end}}
  <p><a href="{{.dashboardUrl}}">View your listings</a></p>
</div>`)),
	},
}

// Render produces the subject and HTML body for a template id.
func Render(id string, data map[string]any) (subject, body string, err error) {
	t, ok := templates[id]
	if !ok {
		return "", "", fmt.Errorf("unknown notification template %q", id)
	}
	var buf bytes.Buffer
	if err := t.body.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return t.subject, buf.String(), nil
}
