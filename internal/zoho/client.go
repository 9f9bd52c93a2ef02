package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an HTTP client for the Zoho Mail REST API. Every operation
// first ensures a valid bearer token, then performs a single synchronous
// request with a 50s timeout.
type Client struct {
	tokens     *TokenManager
	apiDomain  string
	accountID  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Zoho Mail client for one account.
// apiDomain is the REST base (e.g. https://mail.zoho.com/api/accounts).
func NewClient(tokens *TokenManager, apiDomain, accountID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		tokens:     tokens,
		apiDomain:  strings.TrimSuffix(apiDomain, "/"),
		accountID:  accountID,
		httpClient: &http.Client{Timeout: 50 * time.Second},
		logger:     logger,
	}
}

// newRequest builds an authenticated JSON request against the account base
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, err := c.tokens.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiDomain+"/"+c.accountID+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do runs the request and returns the response body, mapping transport
// failures and non-200 statuses onto the given sentinel. The response body
// is logged on failure.
func (c *Client) do(req *http.Request, sentinel error, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(op, "error", err)
		return nil, transportError(sentinel, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		c.logger.Error(op, "status", resp.StatusCode, "body", string(body))
		return nil, statusError(sentinel, resp.StatusCode, string(body))
	}
	return body, nil
}

// ListFolders retrieves all folders for the account
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/folders", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, ErrFolderFetch, "error fetching folders")
	if err != nil {
		return nil, err
	}

	var folders foldersResponse
	if err := json.Unmarshal(body, &folders); err != nil {
		return nil, statusError(ErrFolderFetch, http.StatusOK, fmt.Sprintf("malformed response: %v", err))
	}
	return folders.Data, nil
}

// ListUnread retrieves unread message references from a folder, in the
// order the vendor returns them.
func (c *Client) ListUnread(ctx context.Context, folderID string) ([]Message, error) {
	params := url.Values{
		"folderId": {folderID},
		"status":   {"unread"},
	}

	c.logger.Info("fetching unread messages from Zoho", "folder_id", folderID)
	req, err := c.newRequest(ctx, http.MethodGet, "/messages/view?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, ErrMessageFetch, "error fetching messages")
	if err != nil {
		return nil, err
	}

	var messages messagesResponse
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, statusError(ErrMessageFetch, http.StatusOK, fmt.Sprintf("malformed response: %v", err))
	}

	c.logger.Info("fetched unread messages", "count", len(messages.Data))
	return messages.Data, nil
}

// GetContent retrieves the HTML body of one message. A response without a
// content field yields an empty string, not an error; only transport and
// status failures raise.
func (c *Client) GetContent(ctx context.Context, folderID, messageID string) (string, error) {
	path := fmt.Sprintf("/folders/%s/messages/%s/content", folderID, messageID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	body, err := c.do(req, ErrContentFetch, "error fetching message content")
	if err != nil {
		return "", err
	}

	var content contentResponse
	if err := json.Unmarshal(body, &content); err != nil {
		return "", statusError(ErrContentFetch, http.StatusOK, fmt.Sprintf("malformed response: %v", err))
	}
	return content.Data.Content, nil
}

// MarkRead marks the given messages as read. Unlike the original system,
// failures propagate to the caller like every other operation.
func (c *Client) MarkRead(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	payload, err := json.Marshal(markReadRequest{
		Mode:      "markAsRead",
		MessageID: messageIDs,
	})
	if err != nil {
		return transportError(ErrMarkRead, err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/updatemessage", bytes.NewReader(payload))
	if err != nil {
		return err
	}

	if _, err := c.do(req, ErrMarkRead, "error marking messages as read"); err != nil {
		return err
	}

	c.logger.Info("marked messages as read", "count", len(messageIDs))
	return nil
}

// Send sends a message from the account's configured address and returns
// the provider response payload.
func (c *Client) Send(ctx context.Context, from string, send SendRequest) (map[string]any, error) {
	payload, err := json.Marshal(sendMessageRequest{
		FromAddress: from,
		ToAddress:   send.To,
		CCAddress:   send.CC,
		Subject:     send.Subject,
		Content:     send.Body,
	})
	if err != nil {
		return nil, transportError(ErrSend, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, ErrSend, "error sending message")
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, statusError(ErrSend, http.StatusOK, fmt.Sprintf("malformed response: %v", err))
	}
	return result, nil
}
