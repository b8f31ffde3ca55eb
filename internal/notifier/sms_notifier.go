package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SMSNotifier texts the order owner through the Africa's Talking messaging API.
type SMSNotifier struct {
	cfg    config.AfricaTalkingConfig
	client *http.Client
}

func NewSMSNotifier(cfg config.AfricaTalkingConfig, client *http.Client) *SMSNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &SMSNotifier{cfg: cfg, client: client}
}

func smsMessage(ev Event) string {
	switch {
	case ev.Type == OrderPlaced:
		return fmt.Sprintf("Your order #%d has been successfully placed! Total: %s. Thank you for ordering with Little Lemon!", ev.OrderID, ev.Total.StringFixed(2))
	case ev.Type == OrderUpdated && ev.Status == models.OrderStatusDelivered:
		return fmt.Sprintf("Your order #%d has been delivered. Enjoy!", ev.OrderID)
	default:
		return ""
	}
}

func (n *SMSNotifier) Notify(ctx context.Context, ev Event) error {
	message := smsMessage(ev)
	if message == "" || ev.Phone == "" {
		return nil
	}

	data := url.Values{}
	data.Set("username", n.cfg.Username)
	data.Set("to", ev.Phone)
	data.Set("message", message)
	data.Set("from", n.cfg.SenderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS send failed: %w", err)
	}
	defer resp.Body.Close()

	var smsResp SMSResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if decodeErr == nil {
			log.Printf("SMS API returned error for %s (order %d): Status %d, Message: %s", ev.Phone, ev.OrderID, resp.StatusCode, smsResp.SMSMessageData.Message)
		}
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode SMS response: %w", decodeErr)
	}

	log.Printf("SMS sent to %s for order %d. Message: %s", ev.Phone, ev.OrderID, smsResp.SMSMessageData.Message)
	return nil
}
