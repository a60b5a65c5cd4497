package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"relo-assistant/internal/cache"
	"relo-assistant/internal/catalog"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/email"
	"relo-assistant/internal/fragment"
	"relo-assistant/internal/intent"
	"relo-assistant/internal/llm"
	"relo-assistant/internal/store"
)

// HandlerClass clasifica el comportamiento de un intent.
type HandlerClass string

const (
	ClassLocal     HandlerClass = "local"
	ClassScripted  HandlerClass = "scripted"
	ClassDelegated HandlerClass = "delegated"
)

// Transition registra un cambio de paso del workflow del hilo.
type Transition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DispatchResult resume lo que produjo un dispatch de forma sincronica. Los
// follow-ups diferidos no aparecen aca: llegan como eventos del store.
type DispatchResult struct {
	Intent     string                 `json:"intent"`
	Service    domain.ServiceCategory `json:"service"`
	ThreadID   string                 `json:"thread_id"`
	Class      HandlerClass           `json:"class"`
	Messages   []domain.Message       `json:"messages"`
	Scheduled  int                    `json:"scheduled"`
	Transition *Transition            `json:"transition,omitempty"`
}

type handlerFunc func(c *call)

type handlerEntry struct {
	class HandlerClass
	fn    handlerFunc
}

// DispatcherDeps agrupa las dependencias del dispatcher. Solo Store es obligatorio.
type DispatcherDeps struct {
	Store     *store.Store
	Catalog   *catalog.Catalog
	Gateway   llm.Gateway
	Cache     cache.ResultCache
	Scheduler Scheduler
	Sender    email.Sender
	Referral  email.ReferralConfig
	Delays    Delays
	Logger    *zap.Logger
	Now       func() time.Time
	NewRef    func() string
}

// Dispatcher resuelve cada intent a un handler del conjunto cerrado y lo
// ejecuta contra el store de la sesion.
type Dispatcher struct {
	store     *store.Store
	catalog   *catalog.Catalog
	gateway   llm.Gateway
	cache     cache.ResultCache
	sched     Scheduler
	sender    email.Sender
	referral  email.ReferralConfig
	workflows *Workflows
	machine   *WorkflowMachine
	delays    Delays
	logger    *zap.Logger
	now       func() time.Time
	newRef    func() string
	handlers  map[string]handlerEntry
	searches  singleflight.Group

	// turn serializa dispatches, asks y follow-ups de la sesion.
	turn sync.Mutex
}

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	d := &Dispatcher{
		store:    deps.Store,
		catalog:  deps.Catalog,
		gateway:  deps.Gateway,
		cache:    deps.Cache,
		sched:    deps.Scheduler,
		sender:   deps.Sender,
		referral: deps.Referral,
		delays:   deps.Delays,
		logger:   deps.Logger,
		now:      deps.Now,
		newRef:   deps.NewRef,
		machine:  NewWorkflowMachine(),
	}
	if d.catalog == nil {
		d.catalog = catalog.Default()
	}
	if d.cache == nil {
		d.cache = cache.NewMemory(0)
	}
	if d.sched == nil {
		d.sched = NewTimerScheduler(deps.Logger)
	}
	d.sched = serialScheduler{inner: d.sched, turn: &d.turn}
	if d.sender == nil {
		d.sender = email.NewDisabledSender("no email sender configured")
	}
	if d.delays == (Delays{}) {
		d.delays = DefaultDelays()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newRef == nil {
		d.newRef = func() string {
			return "REF-" + strings.ToUpper(shortuuid.New()[:6])
		}
	}
	d.workflows = NewWorkflows(d.store, d.sched, d.catalog, d.machine, d.delays)
	d.store.SetGreeter(d.workflows.Greet)
	d.handlers = d.buildHandlers()
	return d
}

// Scheduler expone el scheduler para que la sesion pueda cancelarlo al cerrarse.
func (d *Dispatcher) Scheduler() Scheduler { return d.sched }

// call es el estado de un dispatch. threadID se captura al inicio y todos los
// mensajes, incluidos los diferidos, van a ese hilo.
type call struct {
	d        *Dispatcher
	ctx      context.Context
	intent   string
	payload  intent.Payload
	threadID string
	service  domain.ServiceCategory

	mu       sync.Mutex
	result   DispatchResult
	done     bool
	advanced bool
	moved    bool
}

// reply agrega un mensaje sincronico al hilo del dispatch.
func (c *call) reply(text string) domain.Message {
	msg := c.d.store.AppendMessage(domain.RoleAssistant, text, c.threadID)
	c.mu.Lock()
	if !c.done {
		c.result.Messages = append(c.result.Messages, msg)
	}
	c.mu.Unlock()
	return msg
}

// post agrega un mensaje desde un follow-up; no entra en el resultado.
func (c *call) post(text string) domain.Message {
	return c.d.store.AppendMessage(domain.RoleAssistant, text, c.threadID)
}

// later agenda un follow-up en el hilo del dispatch.
func (c *call) later(delay time.Duration, fn func(ctx context.Context)) {
	c.mu.Lock()
	c.result.Scheduled++
	c.mu.Unlock()
	c.d.sched.After(c.threadID, delay, func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

func (c *call) plan() domain.RelocationPlan {
	p, _ := c.d.store.Plan()
	return p
}

func (c *call) update(partial domain.RelocationPlan) domain.RelocationPlan {
	return c.d.store.UpdateRelocationPlan(partial)
}

// stay deja el paso del hilo como esta aunque el intent tenga transicion.
func (c *call) stay() {
	c.advanced = true
}

// advance intenta mover el workflow del hilo. Se evalua una sola vez por
// dispatch, despues de que el handler actualizo el plan.
func (c *call) advance() bool {
	if c.advanced {
		return c.moved
	}
	c.advanced = true
	th, ok := c.d.store.Thread(c.threadID)
	if !ok {
		return false
	}
	next, ok := c.d.machine.Next(th.Service, th.WorkflowStep, c.intent, c.payload, c.plan())
	if !ok {
		return false
	}
	if err := c.d.store.SetWorkflowStep(c.threadID, next); err != nil {
		return false
	}
	c.moved = true
	c.result.Transition = &Transition{From: th.WorkflowStep, To: next}
	return true
}

// Dispatch ejecuta un intent. Nunca devuelve error: cualquier falla termina
// como un mensaje visible en el hilo del dispatch. Es atomico respecto de
// otros dispatches y follow-ups de la misma sesion.
func (d *Dispatcher) Dispatch(ctx context.Context, name, rawPayload string) DispatchResult {
	d.turn.Lock()
	defer d.turn.Unlock()

	in := intent.Normalize(name)
	p := intent.Decode(rawPayload)

	target := d.store.ActiveThreadID()
	if svc, ok := ResolveService(in); ok && svc != domain.ServiceGeneral {
		th, _ := d.store.GetOrCreateServiceThread(svc)
		if err := d.store.SwitchToThread(th.ID); err != nil {
			d.logger.Warn("switch thread", zap.String("thread_id", th.ID), zap.Error(err))
		}
		target = th.ID
	}

	c := &call{
		d:        d,
		ctx:      ctx,
		intent:   in,
		payload:  p,
		threadID: target,
		service:  d.store.ServiceOf(target),
	}
	c.result.Intent = in
	c.result.ThreadID = target
	c.result.Service = c.service
	d.logger.Debug("dispatch",
		zap.String("intent", in),
		zap.String("thread_id", target),
		zap.Strings("payload_keys", p.Keys()),
	)

	d.captureProfile(in, p)

	entry, ok := d.handlers[in]
	if !ok {
		entry = handlerEntry{class: ClassDelegated, fn: handleDefault}
	}
	c.result.Class = entry.class
	d.run(c, entry.fn)
	c.advance()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
	// El hilo pudo cambiar dentro del handler (show_all_services).
	c.result.ThreadID = c.threadID
	return c.result
}

func (d *Dispatcher) run(c *call, fn handlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("intent handler panicked",
				zap.String("intent", c.intent),
				zap.String("thread_id", c.threadID),
				zap.Any("panic", r),
			)
			c.reply("Sorry, something went wrong while handling that action. Please try again.")
		}
	}()
	fn(c)
}

// captureProfile registra los datos explicitos del payload antes del handler.
func (d *Dispatcher) captureProfile(in string, p intent.Payload) {
	if p == nil {
		return
	}
	switch in {
	case "choose_date", "select_date":
		if date := p.Str("date"); date != "" {
			d.store.UpdateRelocationPlan(domain.RelocationPlan{SelectedDate: domain.Ptr(date)})
		}
	case "confirm_household_size":
		if n, ok := p.Number("size"); ok && n > 0 {
			d.store.UpdateRelocationPlan(domain.RelocationPlan{HouseholdSize: domain.Ptr(int(n))})
		}
	case "set_pet_type":
		if details := p.Str("details"); details != "" && p.Has("count") {
			d.store.UpdateRelocationPlan(domain.RelocationPlan{
				HasPets:    domain.Ptr(p.Str("count") != "0" && p.Str("type") != "none"),
				PetDetails: domain.Ptr(details),
			})
		}
	case "set_children", "set_work_status":
		if details := p.Str("details"); details != "" {
			d.store.AppendSpecialRequirement(details)
		}
	case "choose_hotel":
		name := p.Str("name")
		price, ok := p.Number("price")
		if name != "" && ok && price != 0 {
			update := domain.RelocationPlan{HotelName: domain.Ptr(name), Budget: domain.Ptr(price)}
			if addr := p.Str("address"); addr != "" {
				update.HotelAddress = domain.Ptr(addr)
			}
			d.store.UpdateRelocationPlan(update)
		}
	}
}

// generate llama al gateway con las instrucciones del servicio del hilo y
// aplica el contrato de fragmentos a la respuesta.
func (d *Dispatcher) generate(ctx context.Context, threadID, prompt string, reasoning llm.ReasoningEffort) (string, error) {
	if d.gateway == nil {
		return "", llm.ErrNotConfigured
	}
	instructions := ServiceInstructions(d.catalog, d.store.ServiceOf(threadID))
	out, err := d.gateway.Generate(ctx, prompt, llm.GenerateOptions{Instructions: instructions, Reasoning: reasoning})
	if err != nil {
		return "", err
	}
	if !llm.IsUsable(out) {
		return "", errNoUsableAnswer
	}
	html := fragment.Enforce(fragment.CleanFences(out))
	if html == "" {
		return "", errNoUsableAnswer
	}
	return html, nil
}

var errNoUsableAnswer = errors.New("the assistant returned no usable answer")

// failureText convierte un error del gateway en el mensaje visible del hilo.
func failureText(err error) string {
	var te *llm.TransportError
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return "⚠️ The assistant is not configured yet. Add an API key in settings and try again."
	case errors.Is(err, llm.ErrTimeout):
		return "⚠️ The assistant took too long to answer. Please try again."
	case errors.As(err, &te) && te.StatusCode > 0:
		return fmt.Sprintf("⚠️ The assistant could not answer (status %d): %s", te.StatusCode, te.Body)
	default:
		return "⚠️ The assistant could not answer: " + err.Error()
	}
}

// delayedGeneration agenda una continuacion generada. Si falla, el hilo
// recibe un mensaje de error en lugar del contenido.
func (c *call) delayedGeneration(delay time.Duration, prompt string, fallback string) {
	c.later(delay, func(ctx context.Context) {
		out, err := c.d.generate(ctx, c.threadID, prompt, llm.ReasoningLow)
		if err != nil {
			c.d.logger.Warn("delayed generation failed",
				zap.String("intent", c.intent),
				zap.String("thread_id", c.threadID),
				zap.Error(err),
			)
			if fallback != "" {
				c.post(fallback)
			} else {
				c.post(failureText(err))
			}
			return
		}
		c.post(out)
	})
}
