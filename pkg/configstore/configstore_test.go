package configstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/refwatch/pkg/configstore"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
)

const validSettings = `
repositories:
  nixpkgs:
    remote: https://github.com/NixOS/nixpkgs.git
    branch_regex: "(master|staging.*)"
    conditions:
      in-master:
        condition:
          type: in_branch
          branch_regex: master
      skip-staged:
        condition:
          type: suppress_from_to
          from_regex: "staging.*"
          to_regex: master
  internal:
    remote: https://git.example.com/internal.git
    branch_regex: main
    github_info:
      owner: example
      repo: internal

chats:
  dev-chat:
    webhook: https://chat.example.com/hooks/dev

subscriptions:
  - repo: nixpkgs
    condition: in-master
    chats: [dev-chat]
`

func TestParse(t *testing.T) {
	store := gt.R1(configstore.Parse([]byte(validSettings))).NoError(t)

	t.Run("repositories in name order", func(t *testing.T) {
		repos := store.Repositories()
		gt.A(t, repos).Length(2)
		gt.V(t, repos[0].Name).Equal("internal")
		gt.V(t, repos[1].Name).Equal("nixpkgs")
	})

	t.Run("conditions in name order", func(t *testing.T) {
		repos := store.Repositories()
		conds := repos[1].Conditions
		gt.A(t, conds).Length(2)
		gt.V(t, conds[0].Name).Equal("in-master")
		gt.V(t, conds[1].Name).Equal("skip-staged")
	})

	t.Run("explicit github_info wins over remote detection", func(t *testing.T) {
		repo := store.Repositories()[0]
		gt.True(t, repo.GitHub != nil)
		gt.V(t, repo.GitHub.String()).Equal("example/internal")
	})

	t.Run("github info derived from remote", func(t *testing.T) {
		repo := store.Repositories()[1]
		gt.True(t, repo.GitHub != nil)
		gt.V(t, repo.GitHub.String()).Equal("NixOS/nixpkgs")
	})

	t.Run("endpoints", func(t *testing.T) {
		endpoints := store.Endpoints()
		gt.V(t, endpoints["dev-chat"]).Equal("https://chat.example.com/hooks/dev")
	})

	t.Run("subscribers", func(t *testing.T) {
		ctx := context.Background()

		chats := gt.R1(store.Subscribers(ctx, "nixpkgs", "in-master")).NoError(t)
		gt.A(t, chats).Length(1)
		gt.V(t, chats[0]).Equal("dev-chat")

		chats = gt.R1(store.Subscribers(ctx, "nixpkgs", "skip-staged")).NoError(t)
		gt.A(t, chats).Length(0)
	})
}

func TestParseRejects(t *testing.T) {
	testCases := map[string]string{
		"invalid branch regex": `
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: "["
`,
		"invalid condition regex": `
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: ".*"
    conditions:
      bad:
        condition:
          type: in_branch
          branch_regex: "["
`,
		"unknown condition type": `
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: ".*"
    conditions:
      bad:
        condition:
          type: on_tag
          branch_regex: ".*"
`,
		"missing remote": `
repositories:
  x:
    branch_regex: ".*"
`,
		"chat without webhook": `
chats:
  silent: {}
`,
		"subscription to unknown repository": `
chats:
  dev-chat:
    webhook: https://chat.example.com/hooks/dev
subscriptions:
  - repo: ghost
    condition: in-master
    chats: [dev-chat]
`,
		"subscription to unknown condition": `
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: ".*"
chats:
  dev-chat:
    webhook: https://chat.example.com/hooks/dev
subscriptions:
  - repo: x
    condition: ghost
    chats: [dev-chat]
`,
		"subscription to unknown chat": `
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: ".*"
    conditions:
      in-any:
        condition:
          type: in_branch
          branch_regex: ".*"
subscriptions:
  - repo: x
    condition: in-any
    chats: [ghost]
`,
		"incomplete github_info": `
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: ".*"
    github_info:
      owner: example
`,
	}

	for name, settings := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := configstore.Parse([]byte(settings))
			gt.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads settings from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yml")
		gt.NoError(t, os.WriteFile(path, []byte(validSettings), 0600))

		store := gt.R1(configstore.Load(path)).NoError(t)
		gt.A(t, store.Repositories()).Length(2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := configstore.Load(filepath.Join(t.TempDir(), "missing.yml"))
		gt.Error(t, err)
	})
}

func TestParseInvalidRegexError(t *testing.T) {
	_, err := configstore.Parse([]byte(`
repositories:
  x:
    remote: https://git.example.com/x.git
    branch_regex: "["
`))
	gt.True(t, errors.Is(err, types.ErrInvalidRegex))
}
