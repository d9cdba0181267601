package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"github.com/secmon-lab/refwatch/pkg/utils/safe"
)

// HTTPClient is the minimum http client surface the notifier needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Webhook delivers notification events as JSON POSTs, one endpoint per chat.
// Delivery failures are reported per chat and never abort the batch.
type Webhook struct {
	httpClient HTTPClient
	endpoints  map[types.ChatID]string
}

var _ interfaces.Notifier = (*Webhook)(nil)

type Option func(*Webhook)

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Webhook) {
		x.httpClient = client
	}
}

func NewWebhook(endpoints map[types.ChatID]string, options ...Option) *Webhook {
	x := &Webhook{
		httpClient: http.DefaultClient,
		endpoints:  endpoints,
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

type payload struct {
	Repo      types.RepoName      `json:"repo"`
	Branch    types.BranchName    `json:"branch"`
	Condition types.ConditionName `json:"condition"`
	Commit    types.CommitID      `json:"commit"`
	Message   string              `json:"message"`
}

func (x *Webhook) Deliver(ctx context.Context, chats []types.ChatID, ev model.NotificationEvent) []interfaces.DeliveryResult {
	body, err := json.Marshal(payload{
		Repo:      ev.Repo,
		Branch:    ev.Branch,
		Condition: ev.Condition,
		Commit:    ev.Commit,
		Message:   ev.Message,
	})
	if err != nil {
		results := make([]interfaces.DeliveryResult, 0, len(chats))
		for _, chat := range chats {
			results = append(results, interfaces.DeliveryResult{
				Chat:  chat,
				Error: goerr.Wrap(err, "failed to encode notification"),
			})
		}
		return results
	}

	results := make([]interfaces.DeliveryResult, 0, len(chats))
	for _, chat := range chats {
		results = append(results, interfaces.DeliveryResult{
			Chat:  chat,
			Error: x.deliverOne(ctx, chat, body),
		})
	}
	return results
}

func (x *Webhook) deliverOne(ctx context.Context, chat types.ChatID, body []byte) error {
	endpoint, ok := x.endpoints[chat]
	if !ok {
		return goerr.Wrap(types.ErrInvalidOption, "no endpoint for chat", goerr.V("chat", chat))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to build notification request", goerr.V("chat", chat))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to deliver notification", goerr.V("chat", chat))
	}
	defer safe.Close(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return goerr.New("notification endpoint rejected message",
			goerr.V("chat", chat),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}

	return nil
}
