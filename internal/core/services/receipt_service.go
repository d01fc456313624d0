package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"geomaqui-os/internal/config"
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"
)

// ReceiptService renders printable HTML documents for schedules: the
// full OS document after conclusion and the booking receipt handed to
// the client at scheduling time.
type ReceiptService struct {
	store    *state.Store
	business config.BusinessConfig

	documentTmpl *template.Template
	receiptTmpl  *template.Template
}

// NewReceiptService creates a new receipt service
func NewReceiptService(store *state.Store, business config.BusinessConfig) *ReceiptService {
	return &ReceiptService{
		store:        store,
		business:     business,
		documentTmpl: template.Must(template.New("document").Funcs(tmplFuncs).Parse(documentHTML)),
		receiptTmpl:  template.Must(template.New("receipt").Funcs(tmplFuncs).Parse(receiptHTML)),
	}
}

var tmplFuncs = template.FuncMap{
	"phone":    FormatPhone,
	"currency": FormatCurrencyBRL,
}

// FormatPhone formats a Brazilian phone number: 11 digits become
// (XX) XXXXX-XXXX, 10 digits become (XX) XXXX-XXXX, anything else is
// returned untouched.
func FormatPhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[0:2], digits[2:7], digits[7:11])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[0:2], digits[2:6], digits[6:10])
	default:
		return raw
	}
}

// FormatCurrencyBRL renders a value as Brazilian currency: R$ 1.234,56
func FormatCurrencyBRL(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)

	intPart := parts[0]
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), parts[1])
}

// Protocol derives the short booking protocol from a schedule ID
func Protocol(scheduleID string) string {
	if len(scheduleID) > 8 {
		scheduleID = scheduleID[:8]
	}
	return strings.ToUpper(scheduleID)
}

type documentData struct {
	Company  config.BusinessConfig
	Schedule *ScheduleResponse
	Protocol string
}

// RenderDocument renders the full OS document for a schedule. The
// technical report section only appears after conclusion.
func (s *ReceiptService) RenderDocument(actor Actor, scheduleID string) ([]byte, error) {
	sched, err := s.lookup(actor, scheduleID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.documentTmpl.Execute(&buf, documentData{
		Company:  s.business,
		Schedule: sched,
		Protocol: Protocol(sched.ID),
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderReceipt renders the booking receipt for a schedule
func (s *ReceiptService) RenderReceipt(actor Actor, scheduleID string) ([]byte, error) {
	sched, err := s.lookup(actor, scheduleID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.receiptTmpl.Execute(&buf, documentData{
		Company:  s.business,
		Schedule: sched,
		Protocol: Protocol(sched.ID),
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReceiptService) lookup(actor Actor, scheduleID string) (*ScheduleResponse, error) {
	snap := s.store.Snapshot()
	sched := snap.ScheduleByID(scheduleID)
	if sched == nil {
		return nil, domain.ErrScheduleNotFound
	}
	if actor.Role == domain.RoleTechnician && sched.TechnicianID != actor.ID {
		return nil, domain.ErrScheduleNotFound
	}

	resp := &ScheduleResponse{Schedule: sched.Clone()}
	if tech := snap.UserByID(sched.TechnicianID); tech != nil {
		resp.TechnicianName = tech.Name
	}
	return resp, nil
}

const documentHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>OS {{.Protocol}} - {{.Company.CompanyName}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 13px; color: #222; max-width: 720px; margin: 24px auto; }
h1 { font-size: 18px; margin: 0; }
.header { display: flex; justify-content: space-between; border-bottom: 2px solid #222; padding-bottom: 8px; }
.section { margin-top: 16px; }
.section h2 { font-size: 14px; border-bottom: 1px solid #999; padding-bottom: 2px; }
.total { font-size: 15px; font-weight: bold; text-align: right; margin-top: 8px; }
.warranty { font-size: 11px; color: #555; margin-top: 16px; }
.signatures { display: flex; justify-content: space-around; margin-top: 48px; }
.signatures div { border-top: 1px solid #222; width: 40%; text-align: center; padding-top: 4px; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{.Company.CompanyName}}</h1>
    <div>{{.Company.CompanyAddress}}</div>
    <div>{{phone .Company.CompanyPhone}}</div>
  </div>
  <div>
    <h1>OS {{.Protocol}}</h1>
    {{if .Schedule.CompletionDate}}<div>Concluída em {{.Schedule.CompletionDate}}</div>{{end}}
  </div>
</div>

<div class="section">
  <h2>Cliente</h2>
  <div>{{.Schedule.ClientName}}</div>
  <div>{{phone .Schedule.ClientPhone}}</div>
  <div>{{.Schedule.ClientAddress}}{{if .Schedule.ClientNumber}}, {{.Schedule.ClientNumber}}{{end}}</div>
</div>

<div class="section">
  <h2>Atendimento</h2>
  <div>Data: {{.Schedule.AppointmentDate}} às {{.Schedule.AppointmentTime}}</div>
  <div>Técnico: {{.Schedule.TechnicianName}}</div>
  <div>Atendente: {{.Schedule.AttendantName}}</div>
  <div>Problema relatado: {{.Schedule.Description}}</div>
</div>

{{if .Schedule.WorkDoneDescription}}
<div class="section">
  <h2>Relatório Técnico</h2>
  <div>{{.Schedule.WorkDoneDescription}}</div>
  <div class="total">TOTAL: {{currency .Schedule.FinalValue}}</div>
</div>
{{end}}

<div class="warranty">
  Garantia de {{.Company.WarrantyDays}} dias sobre o serviço executado, contados da data de conclusão.
</div>

<div class="signatures">
  <div>{{.Schedule.TechnicianName}}<br>Técnico</div>
  <div>{{.Schedule.ClientName}}<br>Cliente</div>
</div>
</body>
</html>
`

const receiptHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Comprovante {{.Protocol}} - {{.Company.CompanyName}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 13px; color: #222; max-width: 420px; margin: 24px auto; border: 1px solid #999; padding: 16px; }
h1 { font-size: 16px; text-align: center; margin: 0 0 8px; }
.protocol { text-align: center; font-size: 20px; letter-spacing: 2px; font-weight: bold; margin: 12px 0; }
.row { margin: 4px 0; }
.footer { font-size: 11px; color: #555; text-align: center; margin-top: 16px; }
</style>
</head>
<body>
<h1>{{.Company.CompanyName}}</h1>
<div class="protocol">{{.Protocol}}</div>
<div class="row">Cliente: {{.Schedule.ClientName}}</div>
<div class="row">Telefone: {{phone .Schedule.ClientPhone}}</div>
<div class="row">Agendado para: {{.Schedule.AppointmentDate}} às {{.Schedule.AppointmentTime}}</div>
<div class="row">Técnico: {{.Schedule.TechnicianName}}</div>
<div class="footer">Guarde este protocolo para acompanhar sua OS. {{phone .Company.CompanyPhone}}</div>
</body>
</html>
`
