package classifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unisism/transport-api/internal/classifier"
)

func classify(t *testing.T, doc string) classifier.Result {
	t.Helper()
	k := classifier.NewKeyword(classifier.PlainText{})
	res, err := k.Classify(context.Background(), []byte(doc), "doc.txt")
	require.NoError(t, err)
	return res
}

func TestClassify_ReferralReport_CriticalPriority(t *testing.T) {
	res := classify(t, `LAUDO MEDICO
NOME: Maria da Silva
123.456.789-01
DIAGNOSTICO: ONCOLOGIA - CID: C50.9
PROCEDIMENTO: Quimioterapia adjuvante`)

	assert.Equal(t, classifier.ReferralReport, res.DocumentType)
	assert.Equal(t, 5, res.PriorityLevel)
	assert.Equal(t, "123.456.789-01", res.PatientID)
	assert.Equal(t, "Maria da Silva", res.PatientName)
	assert.Equal(t, "C50.9", res.Fields["cid"])
	assert.Equal(t, "Quimioterapia adjuvante", res.Fields["procedure"])
}

func TestClassify_ReferralReport_UrgentPriority(t *testing.T) {
	res := classify(t, "LAUDO MEDICO\nPaciente GESTANTE, encaminhamento URGENTE\n123.456.789-01")

	assert.Equal(t, classifier.ReferralReport, res.DocumentType)
	assert.Equal(t, 3, res.PriorityLevel)
}

func TestClassify_SchedulingConfirmation(t *testing.T) {
	res := classify(t, `COMPROVANTE DE AGENDAMENTO
NOME: Joao Souza
987.654.321-00
DESTINO: Hospital das Clinicas
Data: 12/10/2026 08:30`)

	assert.Equal(t, classifier.SchedulingConfirmation, res.DocumentType)
	// Confirmations carry no diagnosis, so priority stays elective.
	assert.Equal(t, 1, res.PriorityLevel)
	assert.Equal(t, "12/10/2026", res.Fields["appointment_date"])
	assert.Equal(t, "Hospital das Clinicas", res.Fields["destination"])
}

func TestClassify_CriticalKeywordWinsOverUrgent(t *testing.T) {
	res := classify(t, "LAUDO: paciente IDOSO em HEMODIALISE")
	assert.Equal(t, 5, res.PriorityLevel)
}

func TestClassify_UnknownDocument_DefaultPriority(t *testing.T) {
	res := classify(t, "Lista de compras: arroz, feijao")

	assert.Equal(t, classifier.Unknown, res.DocumentType)
	assert.Equal(t, 1, res.PriorityLevel)
	assert.Empty(t, res.PatientID)
}

func TestClassify_NameFallsBackToLineAboveNationalID(t *testing.T) {
	res := classify(t, "LAUDO MEDICO\nCarlos Pereira dos Santos\n111.222.333-44\n")
	assert.Equal(t, "Carlos Pereira dos Santos", res.PatientName)
}

func TestClassify_BinaryContent_ReturnsErrorResult(t *testing.T) {
	k := classifier.NewKeyword(classifier.PlainText{})

	res, err := k.Classify(context.Background(), []byte{0xff, 0xfe, 0x00, 0x01}, "scan.pdf")

	require.Error(t, err)
	assert.Equal(t, classifier.Error, res.DocumentType)
	assert.Equal(t, 0, res.PriorityLevel)
}

func TestClassify_EmptyDocument_ReturnsErrorResult(t *testing.T) {
	k := classifier.NewKeyword(classifier.PlainText{})

	res, err := k.Classify(context.Background(), nil, "empty.txt")

	require.Error(t, err)
	assert.Equal(t, classifier.Error, res.DocumentType)
	assert.Equal(t, 0, res.PriorityLevel)
}
