package services

import (
	"context"
	"testing"
	"time"

	"geomaqui-os/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBusiness() config.BusinessConfig {
	return config.BusinessConfig{
		CompanyName:    "Click Geomaqui",
		CompanyPhone:   "86988776655",
		CompanyAddress: "Av. Principal, 1000 - Teresina/PI",
		CommissionRate: 0.07,
		WarrantyDays:   90,
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mobile 11 digits", "86999887766", "(86) 99988-7766"},
		{"landline 10 digits", "8633221100", "(86) 3322-1100"},
		{"already formatted", "(86) 99988-7766", "(86) 99988-7766"},
		{"with country code kept as is", "+5586999887766", "+5586999887766"},
		{"too short", "1234", "1234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.in))
		})
	}
}

func TestFormatCurrencyBRL(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "R$ 0,00"},
		{"cents", 0.5, "R$ 0,50"},
		{"hundreds", 350, "R$ 350,00"},
		{"thousands", 1234.56, "R$ 1.234,56"},
		{"millions", 1234567.89, "R$ 1.234.567,89"},
		{"negative", -99.9, "-R$ 99,90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrencyBRL(tt.in))
		})
	}
}

func TestProtocol(t *testing.T) {
	assert.Equal(t, "A1B2C3D4", Protocol("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "OS-7", Protocol("os-7"))
}

func TestRenderDocumentPending(t *testing.T) {
	store, _ := newTestStore(t)
	schedules := NewScheduleService(store)
	schedules.SetNowFunc(func() time.Time { return testNow })
	receipts := NewReceiptService(store, testBusiness())

	sched, err := schedules.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	html, err := receipts.RenderDocument(adminActor, sched.ID)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Click Geomaqui")
	assert.Contains(t, body, "Dona Maria")
	assert.Contains(t, body, "(86) 99988-7766")
	assert.Contains(t, body, Protocol(sched.ID))
	assert.Contains(t, body, "Carlos")
	// No technical report before conclusion
	assert.NotContains(t, body, "TOTAL:")
	assert.NotContains(t, body, "Relatório Técnico")
}

func TestRenderDocumentConcluded(t *testing.T) {
	store, _ := newTestStore(t)
	schedules := NewScheduleService(store)
	schedules.SetNowFunc(func() time.Time { return testNow })
	receipts := NewReceiptService(store, testBusiness())

	sched, err := schedules.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)
	_, err = schedules.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)
	_, err = schedules.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{
		WorkDoneDescription: "Troca do compressor",
		FinalValue:          1234.56,
	})
	require.NoError(t, err)

	html, err := receipts.RenderDocument(techActor, sched.ID)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "Relatório Técnico")
	assert.Contains(t, body, "Troca do compressor")
	assert.Contains(t, body, "TOTAL: R$ 1.234,56")
	assert.Contains(t, body, "Garantia de 90 dias")
}

func TestRenderReceipt(t *testing.T) {
	store, _ := newTestStore(t)
	schedules := NewScheduleService(store)
	receipts := NewReceiptService(store, testBusiness())

	sched, err := schedules.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	html, err := receipts.RenderReceipt(attActor, sched.ID)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, Protocol(sched.ID))
	assert.Contains(t, body, "Dona Maria")
	assert.Contains(t, body, "Click Geomaqui")
}

func TestRenderScopedToAssignedTechnician(t *testing.T) {
	store, _ := newTestStore(t)
	schedules := NewScheduleService(store)
	receipts := NewReceiptService(store, testBusiness())

	sched, err := schedules.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	// tech-2 is not assigned to this OS
	_, err = receipts.RenderDocument(tech2Actor, sched.ID)
	assert.Error(t, err)

	_, err = receipts.RenderReceipt(tech2Actor, "missing-id")
	assert.Error(t, err)
}
