package infra

import (
	"net/http"

	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
)

type Clients struct {
	mirror        interfaces.Mirror
	githubClient  interfaces.GitHubClient
	stateRepo     interfaces.StateRepository
	notifier      interfaces.Notifier
	subscriptions interfaces.SubscriptionRegistry
	httpClient    HTTPClient
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		httpClient: http.DefaultClient,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) Mirror() interfaces.Mirror {
	return x.mirror
}
func (x *Clients) GitHub() interfaces.GitHubClient {
	return x.githubClient
}
func (x *Clients) StateRepo() interfaces.StateRepository {
	return x.stateRepo
}
func (x *Clients) Notifier() interfaces.Notifier {
	return x.notifier
}
func (x *Clients) Subscriptions() interfaces.SubscriptionRegistry {
	return x.subscriptions
}
func (x *Clients) HTTPClient() HTTPClient {
	return x.httpClient
}

func WithMirror(mirror interfaces.Mirror) Option {
	return func(x *Clients) {
		x.mirror = mirror
	}
}

func WithGitHub(client interfaces.GitHubClient) Option {
	return func(x *Clients) {
		x.githubClient = client
	}
}

func WithStateRepo(repo interfaces.StateRepository) Option {
	return func(x *Clients) {
		x.stateRepo = repo
	}
}

func WithNotifier(notifier interfaces.Notifier) Option {
	return func(x *Clients) {
		x.notifier = notifier
	}
}

func WithSubscriptions(registry interfaces.SubscriptionRegistry) Option {
	return func(x *Clients) {
		x.subscriptions = registry
	}
}

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}
