package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"hearsay/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	msg := buildWelcome(toName)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.subject},
				Body: &types.Body{
					Html: &types.Content{Data: &msg.html},
					Text: &types.Content{Data: &msg.text},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

type welcomeMessage struct {
	subject string
	html    string
	text    string
}

func buildWelcome(name string) welcomeMessage {
	if name == "" {
		name = "there"
	}
	return welcomeMessage{
		subject: "Welcome to HearSay",
		text: fmt.Sprintf("Hi %s,\n\nWelcome to HearSay! Finish onboarding in the app to get your first listening plan.\n\n"+
			"A few minutes a day is all it takes.\n\nThe HearSay Team", name),
		html: fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome to HearSay</h2>
  <p>Hi %s,</p>
  <p>Finish onboarding in the app to get your first listening plan.</p>
  <p>A few minutes a day is all it takes.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">HearSay - learn languages by listening</p>
</body>
</html>`, html.EscapeString(name)),
	}
}
