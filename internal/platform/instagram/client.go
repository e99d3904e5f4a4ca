package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"social-crm/internal/config"
	"social-crm/internal/domain"
	"social-crm/internal/repository"
	"social-crm/pkg/logger"
)

// Client talks to the Meta Graph API. Every failure is reported as a nil
// result or false, never as an error: callers treat a missing credential and
// a non-success upstream response identically, and the client itself never
// retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	accounts   repository.AccountRepository
	log        *logger.Logger
}

func NewClient(cfg *config.Config, accounts repository.AccountRepository, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.SendTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.GraphAPIBaseURL, "/"),
		token:      cfg.InstagramAccessToken,
		accounts:   accounts,
		log:        log,
	}
}

func (c *Client) GetUserInfo(ctx context.Context, externalID string) *domain.UserInfo {
	token := c.accessToken(ctx)
	if token == "" {
		c.log.Warnf("no access token available for Instagram user lookup")
		return nil
	}

	reqURL := fmt.Sprintf("%s/%s?fields=id,username,name,profile_pic&access_token=%s",
		c.baseURL, url.PathEscape(externalID), url.QueryEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Errorf("error fetching Instagram user info for %s: %s", externalID, err.Error())
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warnf("failed to get user info for %s, status: %d", externalID, resp.StatusCode)
		return nil
	}

	var info domain.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.log.Errorf("error decoding Instagram user info for %s: %s", externalID, err.Error())
		return nil
	}
	return &info
}

func (c *Client) SendText(ctx context.Context, recipientID, text string) bool {
	body := sendRequest{
		Recipient: User{ID: recipientID},
		Message:   sendContent{Text: &text},
	}
	return c.send(ctx, recipientID, body)
}

func (c *Client) SendMedia(ctx context.Context, recipientID, mediaType, mediaURL string) bool {
	body := sendRequest{
		Recipient: User{ID: recipientID},
		Message: sendContent{
			Attachment: &sendAttachment{
				Type:    strings.ToLower(mediaType),
				Payload: AttachmentPayload{URL: mediaURL},
			},
		},
	}
	return c.send(ctx, recipientID, body)
}

func (c *Client) send(ctx context.Context, recipientID string, body sendRequest) bool {
	token := c.accessToken(ctx)
	if token == "" {
		c.log.Errorf("no access token available for sending message")
		return false
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return false
	}

	reqURL := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Errorf("error sending Instagram message to %s: %s", recipientID, err.Error())
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.log.Infof("message sent successfully to %s", recipientID)
		return true
	}

	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.log.Errorf("failed to send message, status: %d, error: %s", resp.StatusCode, string(errBody))
	return false
}

// accessToken resolves the Graph credential: configuration first, then the
// most-recently-connected active platform account. Re-resolved on every
// call, never cached.
func (c *Client) accessToken(ctx context.Context) string {
	if c.token != "" {
		return c.token
	}
	if c.accounts == nil {
		return ""
	}
	acct, err := c.accounts.GetLatestActive(ctx)
	if err != nil {
		return ""
	}
	return acct.AccessToken
}

type sendRequest struct {
	Recipient User        `json:"recipient"`
	Message   sendContent `json:"message"`
}

type sendContent struct {
	Text       *string         `json:"text,omitempty"`
	Attachment *sendAttachment `json:"attachment,omitempty"`
}

type sendAttachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}
