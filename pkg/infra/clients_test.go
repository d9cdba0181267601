package infra_test

import (
	"net/http"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/refwatch/pkg/domain/mock"
	"github.com/secmon-lab/refwatch/pkg/infra"
	"github.com/secmon-lab/refwatch/pkg/repository/memory"
)

func TestNew(t *testing.T) {
	t.Run("create new clients without options", func(t *testing.T) {
		clients := infra.New()
		// HTTPClient should return the default http.DefaultClient
		gt.V(t, clients.HTTPClient()).Equal(http.DefaultClient)
		// Collaborators are nil without configuration
		gt.V(t, clients.Mirror()).Equal(nil)
		gt.V(t, clients.GitHub()).Equal(nil)
		gt.V(t, clients.Notifier()).Equal(nil)
		gt.V(t, clients.Subscriptions()).Equal(nil)
	})

	t.Run("WithMirror option sets mirror", func(t *testing.T) {
		mockMirror := &mock.MirrorMock{}
		clients := infra.New(infra.WithMirror(mockMirror))
		gt.V(t, clients.Mirror()).Equal(mockMirror)
	})

	t.Run("WithGitHub option sets GitHub client", func(t *testing.T) {
		mockGH := &mock.GitHubClientMock{}
		clients := infra.New(infra.WithGitHub(mockGH))
		gt.V(t, clients.GitHub()).Equal(mockGH)
	})

	t.Run("WithHTTPClient option sets HTTP client", func(t *testing.T) {
		mockHTTP := &mockHTTPClient{}
		clients := infra.New(infra.WithHTTPClient(mockHTTP))
		gt.V(t, clients.HTTPClient()).Equal(mockHTTP)
	})

	t.Run("multiple options can be combined", func(t *testing.T) {
		mockMirror := &mock.MirrorMock{}
		mockNotifier := &mock.NotifierMock{}
		store := memory.New()

		clients := infra.New(
			infra.WithMirror(mockMirror),
			infra.WithNotifier(mockNotifier),
			infra.WithStateRepo(store),
		)

		gt.V(t, clients.Mirror()).Equal(mockMirror)
		gt.V(t, clients.Notifier()).Equal(mockNotifier)
		gt.V(t, clients.StateRepo()).Equal(store)
	})
}

type mockHTTPClient struct{}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return nil, nil
}
