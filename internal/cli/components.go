package cli

import (
	"context"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/contextinfo"
	"github.com/ChangLabSNU/Hedwig/internal/dailylog"
	"github.com/ChangLabSNU/Hedwig/internal/external"
	"github.com/ChangLabSNU/Hedwig/internal/gitrepo"
	"github.com/ChangLabSNU/Hedwig/internal/llm"
	"github.com/ChangLabSNU/Hedwig/internal/messaging"
	"github.com/ChangLabSNU/Hedwig/internal/notion"
	"github.com/ChangLabSNU/Hedwig/internal/overview"
	"github.com/ChangLabSNU/Hedwig/internal/policy"
	"github.com/ChangLabSNU/Hedwig/internal/summary"
	"github.com/ChangLabSNU/Hedwig/internal/users"
)

// Component builders. Each command assembles only what it needs.

func (a *app) store() *artifact.Store {
	return artifact.NewStore(a.cfg.Paths.ChangeSummaryOutput)
}

func (a *app) gitRepo() *gitrepo.Repo {
	return gitrepo.New(a.cfg.Paths.NotesRepository, a.loc, nil, a.logger)
}

func (a *app) notionClient() (*notion.Client, error) {
	return notion.NewClient(a.cfg.API.Notion)
}

func (a *app) llmClient() (llm.Client, error) {
	return llm.New(a.cfg.API.LLM)
}

// resolver builds the user resolver, wiring the fetch callback to the
// Notion users API when a client is available.
func (a *app) resolver(client *notion.Client) (*users.Resolver, error) {
	var fetch users.FetchFunc
	if client != nil {
		fetch = func(ctx context.Context, id string) (string, error) {
			user, err := client.GetUser(ctx, id)
			if err != nil {
				return "", err
			}
			return user.Name, nil
		}
	}
	return users.NewResolver(
		a.cfg.Paths.UserlistFile,
		a.cfg.Paths.UserlistOverrideFile,
		fetch,
		a.logger,
	)
}

func (a *app) syncer(dryRun bool) (*notion.Syncer, error) {
	client, err := a.notionClient()
	if err != nil {
		return nil, err
	}
	blacklist, err := notion.LoadBlacklist(a.cfg.Paths.BlacklistFile)
	if err != nil {
		return nil, err
	}
	resolver, err := a.resolver(client)
	if err != nil {
		return nil, err
	}
	return &notion.Syncer{
		Client:              client,
		Repo:                a.gitRepo(),
		Checkpoint:          artifact.NewCheckpoint(a.cfg.Paths.CheckpointFile),
		Blacklist:           blacklist,
		Resolver:            resolver,
		Logger:              a.logger,
		DefaultLookbackDays: a.cfg.Sync.DefaultLookbackDays,
		CommitTemplate:      a.cfg.Sync.GitCommitTemplate,
		DryRun:              dryRun,
	}, nil
}

func (a *app) summaryGenerator(store *artifact.Store) (*summary.Generator, error) {
	client, err := a.llmClient()
	if err != nil {
		return nil, err
	}
	// Editor IDs in exported files are already display names, so the
	// resolver runs without a fetch callback here.
	resolver, err := a.resolver(nil)
	if err != nil {
		return nil, err
	}
	return &summary.Generator{
		Repo:            a.gitRepo(),
		Store:           store,
		LLM:             client,
		Resolver:        resolver,
		Logger:          a.logger,
		Model:           a.cfg.API.LLM.DiffSummarizationModel,
		MaxDiffLength:   a.cfg.Summary.MaxDiffLength,
		MaxAgeOverrides: a.cfg.Summary.MaxAgeByWeekday,
		Location:        a.loc,
		DayStart:        a.cfg.Global.LogicalDayStart,
	}, nil
}

func (a *app) externalManager(store *artifact.Store) *external.Manager {
	return external.NewManager(store, a.cfg.Overview.ExternalContent, a.logger)
}

func (a *app) dailyLogGenerator(store *artifact.Store) (*dailylog.Generator, error) {
	client, err := a.llmClient()
	if err != nil {
		return nil, err
	}
	return &dailylog.Generator{
		Store:          store,
		External:       a.externalManager(store),
		LLM:            client,
		Logger:         a.logger,
		Model:          a.cfg.API.LLM.DailyLogModel,
		Language:       a.cfg.Overview.Language,
		PromptOverride: a.cfg.API.LLM.DailyLogPromptTemplate,
		FileSuffix:     a.cfg.DailyLog.FileSuffix,
		Location:       a.loc,
		DayStart:       a.cfg.Global.LogicalDayStart,
		SavePayloads:   a.verbose,
	}, nil
}

func (a *app) overviewGenerator(store *artifact.Store) (*overview.Generator, error) {
	client, err := a.llmClient()
	if err != nil {
		return nil, err
	}
	return &overview.Generator{
		Store:          store,
		External:       a.externalManager(store),
		Providers:      contextinfo.Build(a.cfg.Overview.ContextProviders, a.logger),
		LLM:            client,
		Logger:         a.logger,
		Policies:       policy.Default().Apply(a.cfg.Overview.WeekdayConfig),
		Model:          a.cfg.API.LLM.OverviewModel,
		Language:       a.cfg.Overview.Language,
		Persona:        a.cfg.Overview.Persona,
		TeamInfo:       a.cfg.Overview.TeamInfo,
		PromptOverride: a.cfg.API.LLM.OverviewPromptTemplate,
		DailyLogSuffix: a.cfg.DailyLog.FileSuffix,
		Location:       a.loc,
		DayStart:       a.cfg.Global.LogicalDayStart,
		SavePayloads:   a.verbose,
	}, nil
}

func (a *app) messenger() (*messaging.Manager, error) {
	return messaging.NewManager(a.cfg.Messaging, a.logger)
}
