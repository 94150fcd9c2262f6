package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"growthcheck/internal/growth"
	"growthcheck/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		if debug {
			log.Println("[DEBUG] Email service will skip sending all emails")
		}
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
		log.Printf("[DEBUG] From Name: %s", fromName)
		log.Printf("[DEBUG] App Base URL: %s", appBaseURL)
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		if debug {
			log.Printf("[DEBUG] Failed to load AWS config: %v", err)
		}
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if debug {
		log.Println("[DEBUG] AWS config loaded successfully")
	}

	// Create SES client
	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	if debug {
		log.Println("[DEBUG] SES client created successfully")
	}

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// NotifyScreening emails the caregiver a referral notice listing the
// readings that fell outside the expected range
func (s *EmailService) NotifyScreening(ctx context.Context, caregiver *models.Caregiver, alert models.ScreeningAlert) error {
	if s.debug {
		log.Printf("[DEBUG] NotifyScreening called: child=%s, measurement=%s, flagged=%d", alert.ChildID, alert.MeasurementID, len(alert.Flagged))
	}

	if !s.enabled {
		log.Printf("Skipping email send (service disabled): screening alert for child %s", alert.ChildID)
		return nil
	}
	if caregiver == nil || caregiver.Email == "" {
		log.Printf("Skipping screening email for child %s: no caregiver address", alert.ChildID)
		return nil
	}

	subject, htmlBody, textBody := screeningEmail(caregiver.Name, s.appBaseURL, alert)

	if s.debug {
		log.Printf("[DEBUG] Sending screening email: subject=%s, to=%s", subject, caregiver.Email)
		log.Printf("[DEBUG] HTML body length: %d bytes", len(htmlBody))
		log.Printf("[DEBUG] Text body length: %d bytes", len(textBody))
	}

	return s.sendEmail(ctx, caregiver.Email, subject, htmlBody, textBody)
}

// screeningEmail renders the referral notice
func screeningEmail(caregiverName, appBaseURL string, alert models.ScreeningAlert) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Growth check for %s needs a follow-up", alert.ChildName)
	chartLink := fmt.Sprintf("%s/children/%s", appBaseURL, alert.ChildID)
	observed := alert.ObservedAt.Format("2 January 2006")

	var rows, lines strings.Builder
	for _, a := range alert.Flagged {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s %s</td><td>%s %s</td><td>%.2f</td><td>%.1f</td><td>%s</td></tr>\n",
			html.EscapeString(readingLabel(a.Type)),
			formatValue(a.Value), a.Unit,
			formatValue(a.Median), a.Unit,
			a.ZScore, a.Percentile,
			html.EscapeString(string(a.Classification)))
		fmt.Fprintf(&lines, "- %s: %s %s (median %s %s), z-score %.2f, percentile %.1f, %s\n",
			readingLabel(a.Type),
			formatValue(a.Value), a.Unit,
			formatValue(a.Median), a.Unit,
			a.ZScore, a.Percentile, a.Classification)
	}

	htmlBody = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #d9822b; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		table { border-collapse: collapse; width: 100%%; }
		td, th { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Growth Check Follow-up</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>The growth check recorded for %s on %s (age %.1f months) has readings outside the expected range:</p>
			<table>
				<tr><th>Reading</th><th>Value</th><th>Median</th><th>Z-score</th><th>Percentile</th><th>Result</th></tr>
				%s
			</table>
			<p>This is a screening result, not a diagnosis. Please share it with your child's health worker.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">View Growth Chart</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from GrowthCheck. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(caregiverName), html.EscapeString(alert.ChildName), observed, alert.AgeMonths, rows.String(), chartLink)

	textBody = fmt.Sprintf(`Hi %s,

The growth check recorded for %s on %s (age %.1f months) has readings outside the expected range:

%s
This is a screening result, not a diagnosis. Please share it with your child's health worker.

View the growth chart: %s

---
This is an automated email from GrowthCheck. Please do not reply.
`, caregiverName, alert.ChildName, observed, alert.AgeMonths, lines.String(), chartLink)

	return subject, htmlBody, textBody
}

func readingLabel(typ growth.MeasurementType) string {
	switch typ {
	case growth.Weight:
		return "Weight"
	case growth.Height:
		return "Height"
	case growth.HeadCircumference:
		return "Head circumference"
	default:
		return string(typ)
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if s.debug {
		log.Printf("[DEBUG] sendEmail called: to=%s, subject=%s", toEmail, subject)
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] From address: %s", fromAddress)
		log.Printf("[DEBUG] To address: %s", toEmail)
		log.Printf("[DEBUG] Subject: %s", subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if s.debug {
		log.Printf("[DEBUG] Calling SES SendEmail API...")
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug {
		log.Printf("[DEBUG] SES SendEmail succeeded")
		if result.MessageId != nil {
			log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
		}
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
