package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionType_Valid(t *testing.T) {
	for a := ActionManual; a <= ActionMoveToFolder; a++ {
		assert.True(t, a.Valid(), a.String())
	}
	assert.False(t, ActionType(-1).Valid())
	assert.False(t, ActionType(6).Valid())
}

func TestActionType_String(t *testing.T) {
	assert.Equal(t, "Manual", ActionManual.String())
	assert.Equal(t, "MoveToFolder", ActionMoveToFolder.String())
	assert.Equal(t, "ActionType(7)", ActionType(7).String())
}

func TestEmailAction_WithFolderKeepsAction(t *testing.T) {
	original := EmailAction{Recommendation: "Move to A", Action: ActionMoveToFolder, FolderName: "A"}

	repaired := original.WithFolder("Move to B", "B")

	assert.Equal(t, ActionMoveToFolder, repaired.Action)
	assert.Equal(t, "B", repaired.FolderName)
	assert.Equal(t, "Move to B", repaired.Recommendation)
	assert.Equal(t, "A", original.FolderName)
}

func TestEmailClassification_Percentages(t *testing.T) {
	c := EmailClassification{PercentageChanceOfSpam: 1, PercentageChanceOfPersonal: 8}

	got := c.Percentages()

	assert.Len(t, got, len(EmailTypes))
	assert.Equal(t, TypePercentage{TypeSpam, 1}, got[0])
	assert.Equal(t, TypePercentage{TypePersonal, 8}, got[7])
	for i, tp := range got {
		assert.Equal(t, EmailTypes[i], tp.Type)
	}
}
