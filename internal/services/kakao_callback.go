package services

import (
	"context"
	"log"
	"net/url"
	"sync"
	"time"

	"moviewave/internal/types"
)

type CallbackState string

const (
	CallbackAwaitingCode CallbackState = "awaiting-code"
	CallbackExchanging   CallbackState = "exchanging"
	CallbackSucceeded    CallbackState = "success"
	CallbackFailed       CallbackState = "failed"
)

const (
	HomePath  = "/"
	LoginPath = "/login"

	// DefaultRedirectDelay is how long a failure message stays up before
	// the user is sent back to the login view.
	DefaultRedirectDelay = 2 * time.Second
)

const (
	MsgLoginCancelled = "Kakao login was cancelled."
	MsgMissingCode    = "No authorization code was received."
	MsgCallbackFailed = "Something went wrong while completing Kakao login."
)

// Navigator moves the user to another view, after the given delay.
type Navigator interface {
	Navigate(path string, after time.Duration)
}

type CallbackExchanger interface {
	HandleKakaoCallback(ctx context.Context, code string) (*types.KakaoCallbackResponse, error)
}

type IdentityWriter interface {
	SignIn(snap Snapshot) error
}

// KakaoCallbackController drives one visit of the OAuth callback view.
// A controller exchanges at most one code; create a new one per visit.
type KakaoCallbackController struct {
	exchanger CallbackExchanger
	identity  IdentityWriter
	nav       Navigator
	delay     time.Duration
	logger    *log.Logger

	once    sync.Once
	mu      sync.Mutex
	state   CallbackState
	message string
}

func NewKakaoCallbackController(exchanger CallbackExchanger, identity IdentityWriter, nav Navigator, delay time.Duration) *KakaoCallbackController {
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}
	return &KakaoCallbackController{
		exchanger: exchanger,
		identity:  identity,
		nav:       nav,
		delay:     delay,
		logger:    log.Default(),
		state:     CallbackAwaitingCode,
	}
}

// State returns the current state and the message to show, if any.
func (c *KakaoCallbackController) State() (CallbackState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.message
}

// Process handles the redirect query. Calls after the first one return the
// state reached so far without exchanging again. If ctx is cancelled while
// exchanging, the result is dropped and no navigation happens.
func (c *KakaoCallbackController) Process(ctx context.Context, query url.Values) CallbackState {
	c.once.Do(func() {
		c.process(ctx, query)
	})
	state, _ := c.State()
	return state
}

func (c *KakaoCallbackController) process(ctx context.Context, query url.Values) {
	if query.Get("error") != "" {
		c.fail(MsgLoginCancelled)
		return
	}

	code := query.Get("code")
	if code == "" {
		c.fail(MsgMissingCode)
		return
	}

	c.setState(CallbackExchanging, "")
	resp, err := c.exchanger.HandleKakaoCallback(ctx, code)
	if ctx.Err() != nil {
		c.setState(CallbackFailed, MsgCallbackFailed)
		return
	}
	if err != nil {
		c.logger.Printf("Kakao callback error: %v", err)
		c.fail(MsgCallbackFailed)
		return
	}

	err = c.identity.SignIn(Snapshot{
		UserID:      resp.UserID,
		Name:        resp.Name,
		Bio:         resp.AvatarText,
		AccessToken: resp.AccessToken,
	})
	if err != nil {
		c.logger.Printf("Kakao callback error: %v", err)
		c.fail(MsgCallbackFailed)
		return
	}

	c.setState(CallbackSucceeded, "")
	c.nav.Navigate(HomePath, 0)
}

func (c *KakaoCallbackController) fail(message string) {
	c.setState(CallbackFailed, message)
	c.nav.Navigate(LoginPath, c.delay)
}

func (c *KakaoCallbackController) setState(state CallbackState, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.message = message
}
