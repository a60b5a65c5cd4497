package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"relo-assistant/internal/config"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/email"
	"relo-assistant/internal/fragment"
	"relo-assistant/internal/llm"
	"relo-assistant/internal/service"
	"relo-assistant/internal/store"
)

type chatOptions struct {
	style   string
	model   string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := chatOptions{}
	cmd := &cobra.Command{
		Use:   "cli_chat",
		Short: "Conversacion interactiva con el asistente de relocalizacion",
		Long: `Lineas que empiezan con "/" son intents: /pets, /pay_now {"amount":120}.
Comandos: /threads, /switch <id>, /plan, /quit. Cualquier otro texto va a Ask.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.style, "style", "", "estilo de API del LLM (responses|chat); por defecto LLM_API_STYLE")
	cmd.Flags().StringVar(&opts.model, "model", "", "modelo del LLM; por defecto LLM_MODEL")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "logs de desarrollo")
	return cmd
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, opts chatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if opts.style != "" {
		cfg.LLMAPIStyle = opts.style
	}
	if opts.model != "" {
		cfg.LLMModel = opts.model
	}

	logger := zap.NewNop()
	if opts.verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	creds := llm.NewCredentials(cfg.LLMAPIKey, cfg.LLMModel)
	sessions := service.NewSessionManager(service.SessionManagerConfig{
		Gateway: llm.New(cfg.LLMAPIStyle, cfg.LLMBaseURL, creds, cfg.LLMTimeout, logger),
		Sender:  email.NewLogSender(logger),
		Referral: email.ReferralConfig{
			To: cfg.ReferralTo,
			CC: cfg.ReferralCC,
		},
		Delays: service.Delays{FollowUp: cfg.FollowUpDelay, Long: cfg.FollowUpLongDelay},
		Logger: logger,
	})
	defer sessions.CloseAll()

	sess := sessions.Create()
	events, cancel := sess.Store.Subscribe()
	defer cancel()

	// Los follow-ups llegan por el stream de eventos, no por el resultado.
	go func() {
		for ev := range events {
			if ev.Type == store.EventMessageAppended && ev.Message != nil && ev.Message.Role == domain.RoleAssistant {
				printMessage(out, *ev.Message)
			}
		}
	}()

	if !creds.Configured() {
		fmt.Fprintln(out, "LLM_API_KEY no configurada: solo funcionan los intents locales.")
	}
	fmt.Fprintln(out, "Escribe /quit para salir.")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "[%s] > ", sess.Store.ActiveThreadID())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !handleLine(ctx, out, sess, line) {
			return nil
		}
		// Deja que el stream imprima antes del proximo prompt.
		time.Sleep(50 * time.Millisecond)
	}
}

// handleLine devuelve false cuando el usuario pide salir.
func handleLine(ctx context.Context, out io.Writer, sess *service.Session, line string) bool {
	if !strings.HasPrefix(line, "/") {
		sess.Dispatcher.Ask(ctx, line)
		return true
	}

	name, payload, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	switch strings.ToLower(name) {
	case "quit", "exit":
		return false
	case "threads":
		for _, th := range sess.Store.Threads() {
			marker := " "
			if th.ID == sess.Store.ActiveThreadID() {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-10s %-28s step=%s unread=%d\n", marker, th.ID, th.Title, th.WorkflowStep, th.UnreadCount)
		}
	case "switch":
		if err := sess.Store.SwitchToThread(strings.TrimSpace(payload)); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	case "plan":
		plan, ok := sess.Store.Plan()
		if !ok {
			fmt.Fprintln(out, "sin plan todavia")
			break
		}
		fmt.Fprintf(out, "%+v\n", plan)
	default:
		sess.Dispatcher.Dispatch(ctx, name, payload)
	}
	return true
}

func printMessage(out io.Writer, m domain.Message) {
	text := fragment.StripTags(m.Text)
	if text == "" {
		return
	}
	fmt.Fprintf(out, "\n<%s> %s\n", m.ThreadID, text)
}
