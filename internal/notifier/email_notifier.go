package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier mails the order owner through SES when an order is placed or updated.
type EmailNotifier struct {
	client sesAPI
	sender string
}

func NewEmailNotifier(ctx context.Context, cfg config.EmailConfig) (*EmailNotifier, error) {
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("sender email address is not configured in environment variables")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &EmailNotifier{client: ses.NewFromConfig(awsCfg), sender: cfg.SenderEmail}, nil
}

func (n *EmailNotifier) Notify(ctx context.Context, ev Event) error {
	if ev.Type == OrderDeleted || ev.Email == "" {
		return nil
	}

	input := buildEmailInput(n.sender, ev)
	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Order email (%s) sent for order %d to %s", ev.Type, ev.OrderID, ev.Email)
	return nil
}

func emailContent(ev Event) (subject, text string) {
	total := ev.Total.StringFixed(2)

	switch {
	case ev.Type == OrderPlaced:
		subject = fmt.Sprintf("Order #%d Confirmation - Thank You for Your Order!", ev.OrderID)
		text = fmt.Sprintf(
			"Dear %s,\n\nThank you for your order! Your order #%d has been successfully placed.\n\n"+
				"Order Details:\nOrder ID: %d\nTotal Amount: %s\n\nBest regards,\nLittle Lemon",
			ev.Username, ev.OrderID, ev.OrderID, total)
	case ev.Status == models.OrderStatusDelivered:
		subject = fmt.Sprintf("Order #%d Delivered", ev.OrderID)
		text = fmt.Sprintf("Dear %s,\n\nYour order #%d has been delivered. Enjoy your meal!\n\nBest regards,\nLittle Lemon",
			ev.Username, ev.OrderID)
	default:
		subject = fmt.Sprintf("Order #%d Update", ev.OrderID)
		text = fmt.Sprintf("Dear %s,\n\nYour order #%d is out for delivery.\n\nBest regards,\nLittle Lemon",
			ev.Username, ev.OrderID)
	}
	return subject, text
}

func buildEmailInput(sender string, ev Event) *ses.SendEmailInput {
	subject, text := emailContent(ev)
	return &ses.SendEmailInput{
		Source: aws.String(sender),
		Destination: &types.Destination{
			ToAddresses: []string{ev.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(text),
				},
			},
		},
	}
}
