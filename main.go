package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/bus"
	"github.com/itemkey/item-key/config"
	"github.com/itemkey/item-key/domain"
	"github.com/itemkey/item-key/planner"
	"github.com/itemkey/item-key/storage"
	"github.com/itemkey/item-key/store"
)

func main() {
	configPath := ""
	if v := os.Getenv("ITEMKEY_CONFIG"); v != "" {
		configPath = v
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	kv, err := openKV(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	ctx := context.Background()
	logger := log.StandardLogger()
	st, err := store.New(ctx, kv, logger)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if err := st.EnsureSeed(ctx); err != nil {
		log.Fatalf("store: %v", err)
	}

	b := bus.New()
	sub := b.Subscribe(bus.TopicTasksChanged, func(ev bus.Event) {
		logger.WithField("topic", ev.Topic).Debug("board refresh requested")
	})
	defer sub.Close()

	projects := planner.NewProjectService(st, b, logger)
	tasks := planner.NewTaskService(st, b, logger)

	cmd := "board"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	if err := run(ctx, cmd, args, st, projects, tasks); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openKV(cfg config.Config) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return storage.NewFileKV(cfg.Storage.Path), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
		})
		return storage.NewRedisKV(client, cfg.Storage.Key), nil
	case config.BackendMemory:
		return storage.NewMemoryKV(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func run(ctx context.Context, cmd string, args []string, st *store.Store, projects *planner.ProjectService, tasks *planner.TaskService) error {
	switch cmd {
	case "board":
		board, err := tasks.Board()
		if err != nil {
			return err
		}
		printBoard(board)
		return nil

	case "projects":
		for _, s := range projects.Summaries() {
			marker := " "
			if s.Active {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  (%d tasks)\n", marker, s.ID, s.Name, s.TaskCount)
		}
		return nil

	case "project-create":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "project name")
		desc := fs.String("desc", "", "project description")
		fs.Parse(args)
		p, err := projects.Create(ctx, *name, *desc)
		if err != nil {
			return err
		}
		fmt.Println(p.ID)
		return nil

	case "project-delete":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "project id")
		fs.Parse(args)
		return projects.Delete(ctx, *id)

	case "switch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "project id")
		fs.Parse(args)
		return projects.SetActive(ctx, *id)

	case "columns":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		project := fs.String("project", "", "project id (default: active)")
		fs.Parse(args)
		pid := *project
		if pid == "" {
			pid = st.Snapshot().ActiveProjectID
		}
		draft, err := projects.DraftColumns(pid)
		if err != nil {
			return err
		}
		for _, c := range draft.Rows() {
			role := string(c.Role)
			if role == "" {
				role = "-"
			}
			fmt.Printf("%d  %s  %-14s %s  %s\n", c.Order, c.ID, c.Name, c.Color, role)
		}
		return nil

	case "task-add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		project := fs.String("project", "", "project id (default: active)")
		name := fs.String("name", "", "task name")
		desc := fs.String("desc", "", "task description")
		priority := fs.String("priority", "mid", "low|mid|high")
		deadline := fs.String("deadline", "", "YYYY-MM-DD")
		tags := fs.String("tags", "", "comma-separated tags")
		fs.Parse(args)
		pid := *project
		if pid == "" {
			pid = st.Snapshot().ActiveProjectID
		}
		if pid == "" {
			return planner.ErrNoActiveProject
		}
		t, err := tasks.Create(ctx, pid, planner.TaskFields{
			Name:     *name,
			Desc:     *desc,
			Priority: domain.Priority(*priority),
			Deadline: *deadline,
			Tags:     *tags,
		})
		if err != nil {
			return err
		}
		fmt.Println(t.ID)
		return nil

	case "task-edit":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "task id")
		name := fs.String("name", "", "task name")
		desc := fs.String("desc", "", "task description")
		priority := fs.String("priority", "mid", "low|mid|high")
		deadline := fs.String("deadline", "", "YYYY-MM-DD")
		tags := fs.String("tags", "", "comma-separated tags")
		project := fs.String("project", "", "move to project id")
		column := fs.String("column", "", "column id within the same project")
		fs.Parse(args)
		return tasks.Edit(ctx, *id, planner.TaskFields{
			Name:      *name,
			Desc:      *desc,
			Priority:  domain.Priority(*priority),
			Deadline:  *deadline,
			Tags:      *tags,
			ProjectID: *project,
			ColumnID:  *column,
		})

	case "task-move":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "task id")
		column := fs.String("column", "", "target column id")
		fs.Parse(args)
		return tasks.Move(ctx, *id, *column)

	case "task-to-project":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "task id")
		project := fs.String("project", "", "target project id")
		fs.Parse(args)
		return tasks.MoveToProject(ctx, *id, *project)

	case "task-rm":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "task id")
		fs.Parse(args)
		return tasks.Delete(ctx, *id)

	case "filters":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		clear := fs.Bool("clear", false, "reset all filters")
		q := fs.String("q", "", "free-text search")
		tagList := fs.String("tags", "", "comma-separated tags, all required")
		priority := fs.String("priority", "all", "all|low|mid|high")
		deadline := fs.String("deadline", "all", "all|today|overdue|week")
		sortMode := fs.String("sort", "default", "default|deadline|priority|newest")
		fs.Parse(args)
		if *clear {
			return tasks.ClearFilters(ctx)
		}
		return tasks.SetFilters(ctx, domain.TaskFilters{
			Query:    *q,
			Tags:     *tagList,
			Priority: domain.PriorityFilter(*priority),
			Deadline: domain.DeadlineFilter(*deadline),
			Sort:     domain.SortMode(*sortMode),
		})

	case "view":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		set := fs.String("set", "board", "board|schedule")
		fs.Parse(args)
		return tasks.SetView(ctx, domain.View(*set))
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func printBoard(board domain.Board) {
	for _, col := range board.Columns {
		fmt.Printf("%s (%d)\n", col.ColumnName, col.TaskCount)
		for _, card := range col.Tasks {
			fmt.Printf("  [%s] %s\n        %s\n", card.ID, card.Name, card.MetaSummary)
		}
	}
}
