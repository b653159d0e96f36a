package core

import (
	"fmt"
	"time"
)

// Email represents an email message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
}

// Email types the classifier chooses from
const (
	TypeSpam        = "spam"
	TypePhishing    = "phishing"
	TypeShopping    = "shopping"
	TypeMarketing   = "marketing"
	TypePromotional = "promotional"
	TypeNewsletter  = "newsletter"
	TypeEducational = "educational"
	TypePersonal    = "personal"
)

// EmailTypes is the fixed classification vocabulary, in prompt order
var EmailTypes = []string{
	TypeSpam,
	TypePhishing,
	TypeShopping,
	TypeMarketing,
	TypePromotional,
	TypeNewsletter,
	TypeEducational,
	TypePersonal,
}

// EmailClassification is the model's assessment of a single email.
// LikelyTypeOfEmail is advisory: it is not checked against the percentages.
type EmailClassification struct {
	Summary                       string `json:"summary"`
	LikelyTypeOfEmail             string `json:"likelyTypeOfEmail"`
	MainTopics                    string `json:"mainTopics"`
	PercentageChanceOfSpam        int    `json:"percentageChanceOfSpam"`
	PercentageChanceOfPhishing    int    `json:"percentageChanceOfPhishing"`
	PercentageChanceOfShopping    int    `json:"percentageChanceOfShopping"`
	PercentageChanceOfMarketing   int    `json:"percentageChanceOfMarketing"`
	PercentageChanceOfPromotional int    `json:"percentageChanceOfPromotional"`
	PercentageChanceOfNewsletter  int    `json:"percentageChanceOfNewsletter"`
	PercentageChanceOfEducational int    `json:"percentageChanceOfEducational"`
	PercentageChanceOfPersonal    int    `json:"percentageChanceOfPersonal"`
}

// TypePercentage pairs a vocabulary entry with its likelihood
type TypePercentage struct {
	Type    string
	Percent int
}

// Percentages returns the eight likelihoods in vocabulary order
func (c EmailClassification) Percentages() []TypePercentage {
	return []TypePercentage{
		{TypeSpam, c.PercentageChanceOfSpam},
		{TypePhishing, c.PercentageChanceOfPhishing},
		{TypeShopping, c.PercentageChanceOfShopping},
		{TypeMarketing, c.PercentageChanceOfMarketing},
		{TypePromotional, c.PercentageChanceOfPromotional},
		{TypeNewsletter, c.PercentageChanceOfNewsletter},
		{TypeEducational, c.PercentageChanceOfEducational},
		{TypePersonal, c.PercentageChanceOfPersonal},
	}
}

// ActionType is the closed set of actions the model may recommend
type ActionType int

const (
	ActionManual ActionType = iota
	ActionDelete
	ActionArchive
	ActionReportJunk
	ActionReportPhishing
	ActionMoveToFolder
)

var actionNames = map[ActionType]string{
	ActionManual:         "Manual",
	ActionDelete:         "Delete",
	ActionArchive:        "Archive",
	ActionReportJunk:     "ReportJunk",
	ActionReportPhishing: "ReportPhishing",
	ActionMoveToFolder:   "MoveToFolder",
}

// Valid reports whether a is one of the known action codes
func (a ActionType) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

// EmailAction is the model's recommended action for an email.
// FolderName is only meaningful when Action is ActionMoveToFolder.
type EmailAction struct {
	Recommendation string
	Action         ActionType
	FolderName     string
}

// WithFolder returns a copy of a with the recommendation and folder replaced.
// The action code is preserved.
func (a EmailAction) WithFolder(recommendation, folderName string) EmailAction {
	return EmailAction{
		Recommendation: recommendation,
		Action:         a.Action,
		FolderName:     folderName,
	}
}

// TriageResult is the outcome of classifying and recommending an action for one email
type TriageResult struct {
	ID             string
	Email          *Email
	Classification EmailClassification
	Action         EmailAction
	Skipped        bool
	SkipReason     string
	ProcessedAt    time.Time
	Duration       time.Duration
}
