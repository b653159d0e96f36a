package console

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/mikey/llm-mail-triage/internal/adapters/store"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/ports"
	"github.com/mikey/llm-mail-triage/internal/utils"
	"github.com/mikey/llm-mail-triage/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedPrompter answers prompts from per-title queues. Unscripted
// confirms return their default.
type scriptedPrompter struct {
	confirms map[string][]bool
	inputs   []string
	choice   string
	asked    []string
}

func (p *scriptedPrompter) Select(title string, _ []string) (string, error) {
	p.asked = append(p.asked, title)
	return p.choice, nil
}

func (p *scriptedPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	p.asked = append(p.asked, title)
	answers := p.confirms[title]
	if len(answers) == 0 {
		return defaultValue, nil
	}
	p.confirms[title] = answers[1:]
	return answers[0], nil
}

func (p *scriptedPrompter) Input(title string) (string, error) {
	p.asked = append(p.asked, title)
	if len(p.inputs) == 0 {
		return "", errors.New("no scripted input")
	}
	value := p.inputs[0]
	p.inputs = p.inputs[1:]
	return value, nil
}

func (p *scriptedPrompter) Spin(ctx context.Context, _ string, action func(ctx context.Context) error) error {
	return action(ctx)
}

// fakeMailClient lists messages until they are marked as seen
type fakeMailClient struct {
	accounts []string
	unread   map[string][]ports.MessageRef
	emails   map[uint32]*core.Email
	fetched  []uint32
	executed []core.EmailAction
	seenErr  error
}

func (m *fakeMailClient) Accounts() []string {
	return m.accounts
}

func (m *fakeMailClient) ListMessages(_ context.Context, account string, limit int) ([]ports.MessageRef, error) {
	refs := m.unread[account]
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

func (m *fakeMailClient) FetchMessage(_ context.Context, _ string, ref ports.MessageRef) (*core.Email, error) {
	m.fetched = append(m.fetched, ref.UID)
	return m.emails[ref.UID], nil
}

func (m *fakeMailClient) MarkSeen(_ context.Context, account string, ref ports.MessageRef) error {
	if m.seenErr != nil {
		return m.seenErr
	}
	var remaining []ports.MessageRef
	for _, r := range m.unread[account] {
		if r.UID != ref.UID {
			remaining = append(remaining, r)
		}
	}
	m.unread[account] = remaining
	return nil
}

func (m *fakeMailClient) Execute(_ context.Context, _ string, _ ports.MessageRef, action core.EmailAction) error {
	m.executed = append(m.executed, action)
	return nil
}

type queuedGenerator struct {
	replies []string
}

func (g *queuedGenerator) Generate(_ context.Context, _ string) (*core.Generation, error) {
	if len(g.replies) == 0 {
		return nil, &core.TransportError{Provider: "test", Raw: "no reply queued"}
	}
	text := g.replies[0]
	g.replies = g.replies[1:]
	return &core.Generation{Text: text}, nil
}

type sessionFixture struct {
	session  *Session
	mail     *fakeMailClient
	prompter *scriptedPrompter
	rules    *store.RuleStore
	hints    *store.ClassificationStore
	out      *bytes.Buffer
}

func newSessionFixture(t *testing.T, gen core.TextGenerator, mail *fakeMailClient, prompter *scriptedPrompter) *sessionFixture {
	t.Helper()
	logger := zap.NewNop()
	backend := store.NewMemoryStore(logger)
	rules := store.NewRuleStore(backend, logger)
	hints := store.NewClassificationStore(backend, logger)

	negotiator := core.NewResponseNegotiator(gen, utils.NewTextProcessor(logger), logger, 0)
	service := core.NewTriageService(negotiator, rules, hints, whitelist.NewChecker([]string{"trusted.example"}, logger), logger)

	out := &bytes.Buffer{}
	return &sessionFixture{
		session:  NewSession(service, mail, prompter, NewRenderer(out), logger, 10),
		mail:     mail,
		prompter: prompter,
		rules:    rules,
		hints:    hints,
		out:      out,
	}
}

const newsletterClassification = `{"summary":"Recipes","likelyTypeOfEmail":"newsletter","mainTopics":"Cooking","percentageChanceOfNewsletter":90}`

func TestSession_ProcessesUntilInboxEmpty(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work"},
		unread:   map[string][]ports.MessageRef{"work": {{UID: 2}, {UID: 1}}},
		emails: map[uint32]*core.Email{
			2: {From: "news@chef.example", Subject: "Soup"},
			1: {From: "news@chef.example", Subject: "Stew"},
		},
	}
	prompter := &scriptedPrompter{
		confirms: map[string][]bool{
			"Do you want to add a classification to improve this in future?": {true, false},
			"Do you want to complete the action?":                            {true, false},
		},
		inputs: []string{"Emails from chef.example are newsletters"},
	}
	gen := &queuedGenerator{replies: []string{
		newsletterClassification,
		`{"recommendation":"Archive it","action":2}`,
		newsletterClassification,
		`{"recommendation":"Archive it","action":2}`,
	}}
	f := newSessionFixture(t, gen, mail, prompter)

	err := f.session.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, mail.executed, 1)
	assert.Equal(t, core.ActionArchive, mail.executed[0].Action)

	hints, err := f.hints.GetAllClassifications(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"Emails from chef.example are newsletters"}, hints)

	assert.Contains(t, f.out.String(), "Processing email from news@chef.example with 0 classifications and 0 rules")
	assert.Contains(t, f.out.String(), "Processing email from news@chef.example with 1 classifications and 0 rules")
	assert.Contains(t, f.out.String(), "No unread emails found in work")
	assert.Empty(t, gen.replies)
}

func TestSession_AddsRule(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work"},
		unread:   map[string][]ports.MessageRef{"work": {{UID: 1}}},
		emails:   map[uint32]*core.Email{1: {From: "news@chef.example"}},
	}
	prompter := &scriptedPrompter{
		confirms: map[string][]bool{"Do you want to add a new rule?": {true}},
		inputs:   []string{"Cooking newsletters go to `Recipes`."},
	}
	gen := &queuedGenerator{replies: []string{newsletterClassification, `{"recommendation":"Manual","action":0}`}}
	f := newSessionFixture(t, gen, mail, prompter)

	require.NoError(t, f.session.Run(context.Background()))

	rules, err := f.rules.GetAllRules(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cooking newsletters go to `Recipes`."}, rules)
	assert.NotContains(t, prompter.asked, "Do you want to complete the action?")
	assert.Empty(t, mail.executed)
}

func TestSession_ModelFailureAsksToContinue(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work"},
		unread:   map[string][]ports.MessageRef{"work": {{UID: 2}, {UID: 1}}},
		emails:   map[uint32]*core.Email{2: {From: "a@b.example"}, 1: {From: "c@d.example"}},
	}
	prompter := &scriptedPrompter{
		confirms: map[string][]bool{"Continue to top email?": {false}},
	}
	gen := &queuedGenerator{replies: []string{`not json`}}
	f := newSessionFixture(t, gen, mail, prompter)

	err := f.session.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "Error:")
	assert.Equal(t, []uint32{2}, mail.fetched)
	assert.Len(t, mail.unread["work"], 2, "a failed message stays unread")
	assert.Empty(t, mail.executed)
}

func TestSession_FailedMessageIsPassedOver(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work"},
		unread:   map[string][]ports.MessageRef{"work": {{UID: 2}, {UID: 1}}},
		emails:   map[uint32]*core.Email{2: {From: "a@b.example"}, 1: {From: "c@d.example"}},
	}
	gen := &queuedGenerator{replies: []string{
		`not json`,
		newsletterClassification,
		`{"recommendation":"Manual","action":0}`,
	}}
	f := newSessionFixture(t, gen, mail, &scriptedPrompter{confirms: map[string][]bool{}})

	require.NoError(t, f.session.Run(context.Background()))

	assert.Equal(t, []uint32{2, 1}, mail.fetched, "each message is fetched once")
	assert.Equal(t, []ports.MessageRef{{UID: 2}}, mail.unread["work"])
	assert.Contains(t, f.out.String(), "No more unread emails to process in work")
	assert.Empty(t, gen.replies)
}

func TestSession_MarkSeenFailureDoesNotLoop(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work"},
		unread:   map[string][]ports.MessageRef{"work": {{UID: 1}}},
		emails:   map[uint32]*core.Email{1: {From: "boss@trusted.example"}},
		seenErr:  errors.New("store rejected"),
	}
	f := newSessionFixture(t, &queuedGenerator{}, mail, &scriptedPrompter{confirms: map[string][]bool{}})

	require.NoError(t, f.session.Run(context.Background()))

	assert.Equal(t, []uint32{1}, mail.fetched)
	assert.Contains(t, f.out.String(), "store rejected")
	assert.Contains(t, f.out.String(), "No more unread emails to process in work")
}

func TestSession_SkipsTrustedSender(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work"},
		unread:   map[string][]ports.MessageRef{"work": {{UID: 1}}},
		emails:   map[uint32]*core.Email{1: {From: "boss@trusted.example"}},
	}
	gen := &queuedGenerator{}
	f := newSessionFixture(t, gen, mail, &scriptedPrompter{confirms: map[string][]bool{}})

	require.NoError(t, f.session.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Sender domain is trusted")
	assert.Empty(t, mail.executed)
	assert.Empty(t, mail.unread["work"], "a skipped message is marked as seen")
}

func TestSession_SelectsAccount(t *testing.T) {
	mail := &fakeMailClient{
		accounts: []string{"work", "home"},
		unread:   map[string][]ports.MessageRef{},
	}
	prompter := &scriptedPrompter{confirms: map[string][]bool{}, choice: "home"}
	f := newSessionFixture(t, &queuedGenerator{}, mail, prompter)

	require.NoError(t, f.session.Run(context.Background()))

	assert.Contains(t, prompter.asked, "Which account would you like to process?")
	assert.Contains(t, f.out.String(), "No unread emails found in home")
}

func TestSession_NoAccounts(t *testing.T) {
	f := newSessionFixture(t, &queuedGenerator{}, &fakeMailClient{}, &scriptedPrompter{})

	err := f.session.Run(context.Background())

	assert.ErrorIs(t, err, ErrNoAccounts)
}
