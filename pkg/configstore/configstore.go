package configstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/refwatch/pkg/domain/interfaces"
	"github.com/secmon-lab/refwatch/pkg/domain/model"
	"github.com/secmon-lab/refwatch/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// Store holds the validated tracking configuration loaded from a settings
// file: repositories with their conditions, chat endpoints, and the
// subscription table. All validation happens at load time; the engine assumes
// validated input.
type Store struct {
	repos     []*model.Repository
	endpoints map[types.ChatID]string
	subs      map[subKey][]types.ChatID
}

var _ interfaces.SubscriptionRegistry = (*Store)(nil)

type subKey struct {
	repo types.RepoName
	cond types.ConditionName
}

type rawConfig struct {
	Repositories  map[string]rawRepository `yaml:"repositories"`
	Chats         map[string]rawChat       `yaml:"chats"`
	Subscriptions []rawSubscription        `yaml:"subscriptions"`
}

type rawRepository struct {
	Remote      string                  `yaml:"remote"`
	BranchRegex string                  `yaml:"branch_regex"`
	GitHubInfo  *rawGitHubInfo          `yaml:"github_info"`
	Conditions  map[string]rawCondition `yaml:"conditions"`
}

type rawGitHubInfo struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

type rawCondition struct {
	Condition rawConditionBody `yaml:"condition"`
}

type rawConditionBody struct {
	Type        string `yaml:"type"`
	BranchRegex string `yaml:"branch_regex"`
	FromRegex   string `yaml:"from_regex"`
	ToRegex     string `yaml:"to_regex"`
}

type rawChat struct {
	Webhook string `yaml:"webhook"`
}

type rawSubscription struct {
	Repo      string   `yaml:"repo"`
	Condition string   `yaml:"condition"`
	Chats     []string `yaml:"chats"`
}

// Load reads and validates a settings file. Any invalid regex or dangling
// reference is rejected here, before it can reach the check cycle.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read settings file", goerr.V("path", path))
	}
	return Parse(data)
}

// Parse builds a Store from raw settings bytes.
func Parse(data []byte) (*Store, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse settings file")
	}

	store := &Store{
		endpoints: make(map[types.ChatID]string),
		subs:      make(map[subKey][]types.ChatID),
	}

	repoNames := make([]string, 0, len(raw.Repositories))
	for name := range raw.Repositories {
		repoNames = append(repoNames, name)
	}
	sort.Strings(repoNames)

	for _, name := range repoNames {
		repo, err := buildRepository(name, raw.Repositories[name])
		if err != nil {
			return nil, err
		}
		store.repos = append(store.repos, repo)
	}

	for name, chat := range raw.Chats {
		if chat.Webhook == "" {
			return nil, goerr.Wrap(types.ErrInvalidOption, "chat has no webhook endpoint",
				goerr.V("chat", name),
			)
		}
		store.endpoints[types.ChatID(name)] = chat.Webhook
	}

	for _, sub := range raw.Subscriptions {
		if err := store.addSubscription(sub); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func buildRepository(name string, raw rawRepository) (*model.Repository, error) {
	condNames := make([]string, 0, len(raw.Conditions))
	for cn := range raw.Conditions {
		condNames = append(condNames, cn)
	}
	sort.Strings(condNames)

	var conditions []model.NamedCondition
	for _, cn := range condNames {
		cond, err := buildCondition(raw.Conditions[cn].Condition)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid condition",
				goerr.V("repo", name),
				goerr.V("condition", cn),
			)
		}
		conditions = append(conditions, model.NamedCondition{
			Name: types.ConditionName(cn),
			Cond: cond,
		})
	}

	repo, err := model.NewRepository(types.RepoName(name), raw.Remote, raw.BranchRegex, conditions)
	if err != nil {
		return nil, err
	}

	if raw.GitHubInfo != nil {
		if raw.GitHubInfo.Owner == "" || raw.GitHubInfo.Repo == "" {
			return nil, goerr.Wrap(types.ErrInvalidOption, "github_info requires owner and repo",
				goerr.V("repo", name),
			)
		}
		repo.GitHub = &model.GitHubInfo{Owner: raw.GitHubInfo.Owner, Repo: raw.GitHubInfo.Repo}
	}

	return repo, nil
}

func buildCondition(raw rawConditionBody) (model.Condition, error) {
	switch model.ConditionKind(raw.Type) {
	case model.KindInBranch:
		return model.NewInBranch(raw.BranchRegex)
	case model.KindSuppressFromTo:
		return model.NewSuppressFromTo(raw.FromRegex, raw.ToRegex)
	default:
		return model.Condition{}, goerr.Wrap(types.ErrInvalidOption, "unknown condition type",
			goerr.V("type", raw.Type),
		)
	}
}

func (x *Store) addSubscription(sub rawSubscription) error {
	repo := x.findRepo(types.RepoName(sub.Repo))
	if repo == nil {
		return goerr.Wrap(types.ErrInvalidOption, "subscription references unknown repository",
			goerr.V("repo", sub.Repo),
		)
	}

	cond := types.ConditionName(sub.Condition)
	found := false
	for _, c := range repo.Conditions {
		if c.Name == cond {
			found = true
			break
		}
	}
	if !found {
		return goerr.Wrap(types.ErrInvalidOption, "subscription references unknown condition",
			goerr.V("repo", sub.Repo),
			goerr.V("condition", sub.Condition),
		)
	}

	key := subKey{repo: repo.Name, cond: cond}
	for _, chat := range sub.Chats {
		id := types.ChatID(chat)
		if _, ok := x.endpoints[id]; !ok {
			return goerr.Wrap(types.ErrInvalidOption, "subscription references unknown chat",
				goerr.V("repo", sub.Repo),
				goerr.V("chat", chat),
			)
		}
		x.subs[key] = append(x.subs[key], id)
	}

	return nil
}

func (x *Store) findRepo(name types.RepoName) *model.Repository {
	for _, r := range x.repos {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Repositories returns the configured repositories in name order.
func (x *Store) Repositories() []*model.Repository {
	return x.repos
}

// Endpoints returns the chat webhook endpoints for the notifier.
func (x *Store) Endpoints() map[types.ChatID]string {
	return x.endpoints
}

// Subscribers implements interfaces.SubscriptionRegistry.
func (x *Store) Subscribers(ctx context.Context, repo types.RepoName, cond types.ConditionName) ([]types.ChatID, error) {
	return x.subs[subKey{repo: repo, cond: cond}], nil
}
