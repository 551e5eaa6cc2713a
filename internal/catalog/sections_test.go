package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markerFixture = "Operation\nX\nOp Code\nY\nOperands\nZ\nDescription\nD\nCondition Bits Affected\nC\nExample\nE"

func TestExtractSections_AllMarkers(t *testing.T) {
	s := ExtractSections(markerFixture)

	assert.Equal(t, "X", s.Operation)
	assert.Equal(t, "Y", s.Opcode)
	assert.Equal(t, "Z", s.Operands)
	assert.Equal(t, "D", s.Description)
	assert.Equal(t, "C", s.ConditionBitsAffected)
	require.NotNil(t, s.Example)
	assert.Equal(t, "E", *s.Example)
}

func TestExtractSections_WithoutExample(t *testing.T) {
	text := strings.TrimSuffix(markerFixture, "\nExample\nE")

	s := ExtractSections(text)

	assert.Nil(t, s.Example)
	assert.Equal(t, "C", s.ConditionBitsAffected)
	assert.Equal(t, "D", s.Description)
}

func TestExtractSections_SingularOperand(t *testing.T) {
	text := strings.Replace(markerFixture, "Operands\n", "Operand\n", 1)

	s := ExtractSections(text)

	assert.Equal(t, "Y", s.Opcode)
	assert.Equal(t, "Z", s.Operands)
}

func TestExtractSections_RealisticEntry(t *testing.T) {
	text := "LD r, (IX+d)\n" +
		"Operation\n" +
		"r ← (IX+d)\n" +
		"Op Code\n" +
		"LD\n" +
		"Operands\n" +
		"r, (IX+d)\n" +
		"\n" +
		"Description\n" +
		"The (IX+d) operand (i.e., the contents of Index Register IX summed with\n" +
		"two's-complement displacement integer d) is loaded to register r.\n" +
		"\n" +
		"condition bits affected\n" +
		"None.\n" +
		"Example\n" +
		"If Index Register IX contains the number 25AFh, the instruction\n" +
		"LD B, (IX+19h) loads the contents of memory address 25C8h to register B.\n"

	s := ExtractSections(text)

	assert.Equal(t, "LD r, (IX+d)", s.Keyword)
	assert.Equal(t, "r ← (IX+d)", s.Operation)
	assert.Equal(t, "LD", s.Opcode)
	assert.Equal(t, "r, (IX+d)", s.Operands)
	assert.True(t, strings.HasPrefix(s.Description, "The (IX+d) operand"))
	assert.True(t, strings.HasSuffix(s.Description, "is loaded to register r."))
	assert.Equal(t, "None.", s.ConditionBitsAffected)
	require.NotNil(t, s.Example)
	assert.True(t, strings.HasPrefix(*s.Example, "If Index Register IX"))
	assert.True(t, strings.HasSuffix(*s.Example, "to register B."))
}

func TestExtractSections_MultilineConditionsRunToEnd(t *testing.T) {
	text := "NEG\nOperation\nA ← 0 – A\nOp Code\nNEG\nOperands\n\nDescription\nNegates A.\n" +
		"Condition Bits Affected\nS is set if result is negative.\nZ is set if result is 0.\n"

	s := ExtractSections(text)

	assert.Nil(t, s.Example)
	assert.Equal(t, "S is set if result is negative.\nZ is set if result is 0.", s.ConditionBitsAffected)
}

func TestExtractSections_MissingMarkers(t *testing.T) {
	s := ExtractSections("HALT\nOperation\n—\nDescription\nSuspends the CPU.\n")

	assert.Equal(t, "HALT", s.Keyword)
	assert.Empty(t, s.Operation)
	assert.Empty(t, s.Opcode)
	assert.Empty(t, s.Operands)
	assert.Empty(t, s.ConditionBitsAffected)
	assert.Nil(t, s.Example)
}

func TestExtractSections_EmptySectionEndsAtNextMarkerLine(t *testing.T) {
	text := "EXX\nOperation\nBC ↔ BC'\nOp Code\nOperands\nnone\nDescription\n" +
		"Each 2-byte value is exchanged.\n" +
		"operand pairs are swapped in one cycle.\n" +
		"Condition Bits Affected\nNone."

	s := ExtractSections(text)

	assert.Empty(t, s.Opcode)
	assert.Equal(t, "none", s.Operands)
	assert.Equal(t, "Each 2-byte value is exchanged.\noperand pairs are swapped in one cycle.", s.Description)
	assert.Equal(t, "None.", s.ConditionBitsAffected)
}

func TestExtractSections_MarkerWordInsideLineIsNotABoundary(t *testing.T) {
	text := "LD A, I\nOperation\nA ← I\nOp Code\nLD\nOperands\nA, I\nDescription\n" +
		"The Interrupt Vector is loaded.\nSee Condition Bits Affected below.\n" +
		"Condition Bits Affected\nS is set if I-Register is negative.\nExample\nLD A, I"

	s := ExtractSections(text)

	assert.Equal(t, "The Interrupt Vector is loaded.\nSee Condition Bits Affected below.", s.Description)
	assert.Equal(t, "S is set if I-Register is negative.", s.ConditionBitsAffected)
	require.NotNil(t, s.Example)
	assert.Equal(t, "LD A, I", *s.Example)
}

func TestExtractSections_Idempotent(t *testing.T) {
	first := ExtractSections(markerFixture)
	second := ExtractSections(markerFixture)

	assert.Equal(t, first, second)
	assert.Equal(t, *first.Example, *second.Example)
}

func TestExtractSections_KeywordWithoutNewline(t *testing.T) {
	s := ExtractSections("  NOP  ")
	assert.Equal(t, "NOP", s.Keyword)
	assert.Nil(t, s.Example)
}
