// Package notify delivers the post-submission email. Delivery is best
// effort: the submission already succeeded by the time this runs.
package notify

import (
	"context"
	"fmt"

	"driver-portal/internal/common/config"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the slice of the SES client this package uses, defined here so
// tests can substitute a mock.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailNotifier struct {
	client    SESAPI
	sender    string
	recipient string
	logger    logger.Logger
}

func NewEmailNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*EmailNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &EmailNotifier{
		client:    ses.NewFromConfig(awsCfg),
		sender:    cfg.Sender,
		recipient: cfg.Recipient,
		logger:    log.WithFields(map[string]interface{}{"component": "notify"}),
	}, nil
}

// NewEmailNotifierWithClient is used by tests.
func NewEmailNotifierWithClient(client SESAPI, sender, recipient string, log logger.Logger) *EmailNotifier {
	return &EmailNotifier{client: client, sender: sender, recipient: recipient, logger: log}
}

// SubmissionReceived emails the reviewer inbox about a new application.
func (n *EmailNotifier) SubmissionReceived(ctx context.Context, app models.Application, receiptPath string) error {
	subject := fmt.Sprintf("New driver application %s", app.ID)
	body := fmt.Sprintf(
		"A new driver application was submitted.\n\n"+
			"Application ID: %s\n"+
			"Applicant: %s\n"+
			"Email: %s\n"+
			"Phone: %s\n"+
			"Submitted At: %s\n\n"+
			"Receipt: /pdf/%s.pdf\n",
		app.ID, app.FullName(), app.FieldString("email"), app.Phone(),
		app.SubmittedAt.Format("Jan 2, 2006 3:04 PM MST"), app.ID,
	)

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{n.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send submission email: %w", err)
	}

	n.logger.Info("submission notification sent", map[string]interface{}{
		"applicationId": app.ID,
		"recipient":     n.recipient,
	})
	return nil
}
