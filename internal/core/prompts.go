package core

import (
	"fmt"
	"strings"
)

// MaxBodyChars bounds how much of an email body is sent to the model
const MaxBodyChars = 1000

const classifyPromptFormat = `Assess the following email and respond with a JSON result (no other text) in the following format:
{
    "summary": "A brief 1 sentence summary of the email",
    "likelyTypeOfEmail": "spam",
    "mainTopics": "Bob's Online Casino",
    "percentageChanceOfSpam": 80,
    "percentageChanceOfPhishing": 40,
    "percentageChanceOfShopping": 10,
    "percentageChanceOfMarketing": 0,
    "percentageChanceOfPromotional": 0,
    "percentageChanceOfNewsletter": 0,
    "percentageChanceOfEducational": 0,
    "percentageChanceOfPersonal": 1
}
The value of 'likelyTypeOfEmail' is the most likely type of email out of %s and it must match the type with the highest percentage.
The value of 'mainTopics' is a few comma separated words describing the company the email is from or the name of what it is about (e.g. for a sporting team, the name of the team).
%s
Email details:
From: ` + "`%s`" + `
Subject: ` + "`%s`" + `
Body (first %d characters): ` + "`%s`" + `
`

const hintsPreface = "These are some classification hints to aid the decisions, use these in addition to what you already know:"

const actionPromptFormat = `Based on the rules provided below and the classification of an email being '%s' and main topics being '%s', return a JSON response in the following format, where the values explain what is expected:
{
    "recommendation": "A brief 1 sentence summary of the action that should be taken (e.g. Move to 'Spam' folder)",
    "action": 5,
    "folderName": "Spam"
}
The possible values for 'action' are:
'0' - manual intervention required
'1' - delete the email
'2' - archive the email
'3' - report the email as junk
'4' - report the email as phishing
'5' - if a rule suggests it, move the email to a folder (and set 'folderName' to the folder name listed in the rule)

If the classification does not match a rule listed below, return '0' for manual intervention.
If a rule is about moving to a folder, the folder name is written within back ticks, e.g. ` + "`FolderName`" + `. Those are the only valid folder names; if none applies, manual intervention is required. Never make up a folder name that does not exist in the rules.
Use the combination of main topics and classification to determine the best folder. If a main topic is mentioned in a rule, prefer that rule over a generic one.
Here are the rules, each on a new line:

%s
`

const folderRepairPromptFormat = `Based on the rules provided below and the classification of an email being '%s' and main topics being '%s', return a JSON response in the following format, where the values explain what is expected:
{
    "recommendation": "A brief 1 sentence summary of the action that should be taken (e.g. Move to 'Spam' folder)",
    "folderName": "Spam"
}
Use the combination of main topics and classification to determine the best folder. If a main topic is mentioned in a rule, prefer that rule over a generic one.
'folderName' must be a folder that is specified in the rules below; new folder names cannot be created. Folder names are written within back ticks in a rule, e.g. ` + "`FolderName`" + `. If no relevant folder exists in the rules, return an empty string for 'folderName'.
Last time a folder name of '%s' was chosen, but it does not exist in the rules, so choose one that does exist in the rules below:

%s
`

// buildClassifyPrompt embeds the email and the account's hints in the classify prompt.
// body must already be truncated.
func buildClassifyPrompt(from, subject, body string, hints []string) string {
	quoted := make([]string, len(EmailTypes))
	for i, t := range EmailTypes {
		quoted[i] = "'" + t + "'"
	}

	hintBlock := ""
	if len(hints) > 0 {
		hintBlock = hintsPreface + "\n" + strings.Join(hints, "\n") + "\n"
	}

	return fmt.Sprintf(classifyPromptFormat,
		strings.Join(quoted, ", "),
		hintBlock,
		from,
		subject,
		MaxBodyChars,
		body,
	)
}

// buildActionPrompt asks for an EmailAction given the classification label and rules
func buildActionPrompt(label, mainTopics string, rules []string) string {
	return fmt.Sprintf(actionPromptFormat, label, mainTopics, strings.Join(rules, "\n"))
}

// buildFolderRepairPrompt asks again for a folder after the model named one that
// no rule references
func buildFolderRepairPrompt(label, mainTopics, rejectedFolder string, rules []string) string {
	return fmt.Sprintf(folderRepairPromptFormat, label, mainTopics, rejectedFolder, strings.Join(rules, "\n"))
}

// classificationLabel annotates spam and phishing labels with their likelihood
func classificationLabel(c EmailClassification) string {
	switch {
	case containsFold(c.LikelyTypeOfEmail, TypeSpam):
		return fmt.Sprintf("%s (%d%% likely)", c.LikelyTypeOfEmail, c.PercentageChanceOfSpam)
	case containsFold(c.LikelyTypeOfEmail, TypePhishing):
		return fmt.Sprintf("%s (%d%% likely)", c.LikelyTypeOfEmail, c.PercentageChanceOfPhishing)
	default:
		return c.LikelyTypeOfEmail
	}
}
