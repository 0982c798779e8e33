package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/subtrackhq/subtrack-go/internal/apikey"
	"github.com/subtrackhq/subtrack-go/internal/auth"
	"github.com/subtrackhq/subtrack-go/internal/plan"
	"github.com/subtrackhq/subtrack-go/internal/subscription"
	"github.com/subtrackhq/subtrack-go/internal/webhook"
	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/config"
	"github.com/subtrackhq/subtrack-go/pkg/enums"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/metrics"
	"github.com/subtrackhq/subtrack-go/pkg/pagination"
)

// app holds the wired SDK surface the commands run against.
type app struct {
	cfg           *config.Config
	logg          *logger.Logger
	client        *apiclient.Client
	authService   *auth.Service
	plans         plan.Gateway
	subscriptions subscription.Gateway
	webhooks      webhook.Gateway
	apikeys       apikey.Gateway
}

func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "subtrack",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	client, err := apiclient.New(cfg.API, logg,
		apiclient.WithMetrics(metrics.NewGatewayMetrics(prometheus.DefaultRegisterer)))
	if err != nil {
		return nil, err
	}
	authService, err := auth.NewService(ctx, cfg, client, logg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:           cfg,
		logg:          logg,
		client:        client,
		authService:   authService,
		plans:         plan.NewGateway(client, logg),
		subscriptions: subscription.NewGateway(client, logg),
		webhooks:      webhook.NewGateway(client, logg),
		apikeys:       apikey.NewGateway(client, logg),
	}, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var a *app

func main() {
	root := &cobra.Command{
		Use:           "subtrack",
		Short:         "Manage Subtrack plans, subscriptions, webhooks, and API keys",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cmd.Context())
			return err
		},
	}

	root.AddCommand(loginCmd(), logoutCmd(), meCmd())
	root.AddCommand(planCmd())
	root.AddCommand(subscriptionCmd())
	root.AddCommand(webhookCmd())
	root.AddCommand(apikeyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.authService.JWT == nil {
				return fmt.Errorf("login is only available in jwt auth mode")
			}
			user, err := a.authService.JWT.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printJSON(user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.authService.JWT != nil {
				return a.authService.JWT.Logout(cmd.Context())
			}
			if a.authService.OIDC != nil {
				return a.authService.OIDC.Logout(cmd.Context())
			}
			return nil
		},
	}
}

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.authService.JWT == nil {
				return fmt.Errorf("me is only available in jwt auth mode")
			}
			user, err := a.authService.JWT.LoadMe(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(user)
		},
	}
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "plan", Short: "Manage pricing plans"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List every plan, paging through the collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			paginator := pagination.New(pagination.Page{Limit: limit}, func(ctx context.Context, page pagination.Page) ([]plan.Plan, error) {
				return a.plans.GetSelected(ctx, plan.Sby{Skip: page.Skip, Limit: page.Limit})
			})
			plans, err := paginator.Max(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(plans)
		},
	}
	list.Flags().IntVar(&limit, "page-size", pagination.DefaultLimit, "page size used while draining")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			p, err := a.plans.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}

	var file string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a plan from a JSON form file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var form plan.Form
			if err := json.Unmarshal(data, &form); err != nil {
				return err
			}
			if result := plan.ValidateForm(form); !result.Valid {
				return printJSON(result)
			}
			projection, err := form.ToCreate()
			if err != nil {
				return err
			}
			created, err := a.plans.Create(cmd.Context(), projection)
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
	create.Flags().StringVar(&file, "file", "", "path to the plan form JSON")
	_ = create.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more plans",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if len(ids) == 1 {
				return a.plans.DeleteByID(cmd.Context(), ids[0])
			}
			return a.plans.DeleteSelected(cmd.Context(), ids)
		},
	}

	cmd.AddCommand(list, get, create, del)
	return cmd
}

func subscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "subscription", Short: "Manage subscriptions"}

	var subscriber string
	list := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions, optionally for one subscriber",
		RunE: func(cmd *cobra.Command, _ []string) error {
			paginator := pagination.New(pagination.Page{Limit: pagination.DefaultLimit}, func(ctx context.Context, page pagination.Page) ([]subscription.Subscription, error) {
				return a.subscriptions.GetSelected(ctx, subscription.Sby{
					SubscriberID: subscriber,
					Skip:         page.Skip,
					Limit:        page.Limit,
				})
			})
			subs, err := paginator.Max(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(subs)
		},
	}
	list.Flags().StringVar(&subscriber, "subscriber", "", "filter by subscriber id")

	var planID, subscriberID string
	create := &cobra.Command{
		Use:   "create",
		Short: "Subscribe a user to a plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(planID)
			if err != nil {
				return err
			}
			p, err := a.plans.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			created, err := a.subscriptions.Create(cmd.Context(),
				subscription.NewFromPlan(subscriberID, *p, time.Now().UTC()))
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
	create.Flags().StringVar(&planID, "plan", "", "plan id to subscribe to")
	create.Flags().StringVar(&subscriberID, "subscriber", "", "subscriber id")
	_ = create.MarkFlagRequired("plan")
	_ = create.MarkFlagRequired("subscriber")

	cmd.AddCommand(list, create)
	return cmd
}

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "webhook", Short: "Manage webhooks"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hooks, err := a.webhooks.GetSelected(cmd.Context(), webhook.Sby{})
			if err != nil {
				return err
			}
			return printJSON(hooks)
		},
	}

	var event, target, delays string
	create := &cobra.Command{
		Use:   "create",
		Short: "Subscribe a target URL to an event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			option, ok := webhook.EventCodeOptions().ByKey(event)
			if !ok {
				return fmt.Errorf("unknown event code %q, known: %v", event, enums.AllEventCodes())
			}
			form := webhook.Form{EventCode: option, TargetURL: target, Delays: delays}
			if result := webhook.ValidateForm(form); !result.Valid {
				return printJSON(result)
			}
			projection, err := form.ToCreate()
			if err != nil {
				return err
			}
			created, err := a.webhooks.Create(cmd.Context(), projection)
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
	create.Flags().StringVar(&event, "event", "", "event code to subscribe to")
	create.Flags().StringVar(&target, "target", "", "target url")
	create.Flags().StringVar(&delays, "delays", "0, 60, 300", "retry delays in seconds")
	_ = create.MarkFlagRequired("event")
	_ = create.MarkFlagRequired("target")

	del := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more webhooks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if len(ids) == 1 {
				return a.webhooks.DeleteByID(cmd.Context(), ids[0])
			}
			return a.webhooks.DeleteSelected(cmd.Context(), ids)
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func apikeyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "apikey", Short: "Manage API keys"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := a.apikeys.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(keys)
		},
	}

	var title string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an API key; the secret is shown once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, secret, err := a.apikeys.Create(cmd.Context(), apikey.Create{Title: title})
			if err != nil {
				return err
			}
			if err := printJSON(key); err != nil {
				return err
			}
			fmt.Println("secret (store it now, it will not be shown again):", secret)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "key title")
	_ = create.MarkFlagRequired("title")

	revoke := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}
			return a.apikeys.DeleteByID(cmd.Context(), id)
		},
	}

	cmd.AddCommand(list, create, revoke)
	return cmd
}
