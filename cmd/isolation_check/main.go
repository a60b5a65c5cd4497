package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"relo-assistant/internal/catalog"
	"relo-assistant/internal/config"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/fragment"
	"relo-assistant/internal/llm"
	"relo-assistant/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

type checkOptions struct {
	offline    bool
	scenarios  string
	judgeModel string
	minScope   int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:          "isolation_check",
		Short:        "Corre guiones multi-servicio y audita que cada hilo se quede en su tema",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "usa gateways simulados en vez del LLM real")
	cmd.Flags().StringVar(&opts.scenarios, "scenarios", "", "archivo YAML con escenarios; por defecto los incluidos")
	cmd.Flags().StringVar(&opts.judgeModel, "judge-model", "", "modelo del juez; por defecto LLM_MODEL")
	cmd.Flags().IntVar(&opts.minScope, "min-scope", 3, "puntaje minimo de scope para aprobar")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts checkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load()

	scenarios, err := loadScenarios(opts.scenarios)
	if err != nil {
		return err
	}

	var assistant, judge llm.Gateway
	if opts.offline {
		assistant, judge = newOfflineAssistant(), newOfflineJudge()
	} else {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cfg.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY not configured; use --offline")
		}
		creds := llm.NewCredentials(cfg.LLMAPIKey, cfg.LLMModel)
		assistant = llm.New(cfg.LLMAPIStyle, cfg.LLMBaseURL, creds, cfg.LLMTimeout, nil)
		judgeModel := cfg.LLMModel
		if opts.judgeModel != "" {
			judgeModel = opts.judgeModel
		}
		judge = llm.New(cfg.LLMAPIStyle, cfg.LLMBaseURL, llm.NewCredentials(cfg.LLMAPIKey, judgeModel), cfg.LLMTimeout, nil)
	}

	cat := catalog.Default()
	failed := 0
	for _, sc := range scenarios {
		fmt.Fprintf(out, "%s=== %s (hilo %s) ===%s\n", colorCyan, sc.Name, sc.Home, colorReset)
		ok, err := runScenario(ctx, out, cat, assistant, judge, sc, opts.minScope)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios leaked across threads", failed, len(scenarios))
	}
	fmt.Fprintf(out, "%sall %d scenarios stayed in their threads%s\n", colorGreen, len(scenarios), colorReset)
	return nil
}

func runScenario(
	ctx context.Context,
	out io.Writer,
	cat *catalog.Catalog,
	assistant, judge llm.Gateway,
	sc Scenario,
	minScope int,
) (bool, error) {
	var sched *service.ManualScheduler
	sessions := service.NewSessionManager(service.SessionManagerConfig{
		Catalog: cat,
		Gateway: assistant,
		NewScheduler: func() service.Scheduler {
			sched = service.NewManualScheduler()
			return sched
		},
	})
	defer sessions.CloseAll()
	sess := sessions.Create()

	var lastInput string
	for _, step := range sc.Steps {
		stepCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
		if step.Text != "" {
			sess.Dispatcher.Ask(stepCtx, step.Text)
		} else {
			sess.Dispatcher.Dispatch(stepCtx, step.Intent, step.Payload)
		}
		// Los follow-ups corren en el acto para que cada turno quede completo.
		sched.RunAll()
		cancel()
		if th, ok := sess.Store.ThreadByService(sc.Home); ok && th.ID == sess.Store.ActiveThreadID() {
			lastInput = step.Input()
		}
	}

	th, ok := sess.Store.ThreadByService(sc.Home)
	if !ok && sc.Home == domain.ServiceGeneral {
		th, ok = sess.Store.Thread(domain.GeneralThreadID)
	}
	if !ok {
		return false, fmt.Errorf("home thread %s was never opened", sc.Home)
	}

	pass := true
	for _, m := range sess.Store.Messages(th.ID) {
		if m.Role != domain.RoleAssistant {
			continue
		}
		jr, err := evaluateReply(ctx, judge, cat, sc.Home, lastInput, m.Text)
		if err != nil {
			return false, err
		}
		color := colorGreen
		if jr.ScopeScore < minScope {
			color = colorRed
			pass = false
		}
		fmt.Fprintf(out, "%s[scope %d/5 context %d/5]%s %s\n", color, jr.ScopeScore, jr.ContextScore, colorReset, fragment.Preview(m.Text))
		if jr.ScopeScore < minScope {
			fmt.Fprintf(out, "    %s\n", jr.Reasoning)
		}
	}
	return pass, nil
}
