package domain

import "strings"

// Role represents a staff role in the system
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleAttendant  Role = "ATTENDANT"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleAttendant:
		return true
	}
	return false
}

// ScheduleStatus represents the lifecycle status of a service order
type ScheduleStatus string

const (
	StatusPending     ScheduleStatus = "PENDING"
	StatusAccepted    ScheduleStatus = "ACCEPTED"
	StatusConcluded   ScheduleStatus = "CONCLUDED"
	StatusRescheduled ScheduleStatus = "RESCHEDULED"
	StatusCancelled   ScheduleStatus = "CANCELLED"
)

// IsValid reports whether the status is one of the known statuses
func (s ScheduleStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusConcluded, StatusRescheduled, StatusCancelled:
		return true
	}
	return false
}

// SeedAdminID is the identifier of the seeded administrator account.
// This account can never be removed through DeleteUser.
const SeedAdminID = "admin-1"

// User represents a staff account
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Password    string `json:"password,omitempty"` // bcrypt hash
	Role        Role   `json:"role"`
	Specialty   string `json:"specialty,omitempty"`
	RatingCount int    `json:"ratingCount"`
	RatingSum   int    `json:"ratingSum"`
}

// TransferHistory is an immutable entry in a schedule's transfer log
type TransferHistory struct {
	FromID   string `json:"fromId"`
	FromName string `json:"fromName"`
	ToID     string `json:"toId"`
	ToName   string `json:"toName"`
	Reason   string `json:"reason"`
	Date     string `json:"date"` // dd/mm/yyyy
	Time     string `json:"time"` // hh:mm:ss
}

// ChatMessage is carried in the data model but no operation produces one
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	SenderRole Role   `json:"senderRole"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	IsAI       bool   `json:"isAi,omitempty"`
}

// Reminder types for Schedule.ReminderType (no operation sets them)
const (
	Reminder30Min = "30MIN"
	Reminder1Hour = "1HOUR"
	Reminder1Day  = "1DAY"
	ReminderNone  = "NONE"
)

// Schedule represents a service order (OS)
type Schedule struct {
	ID              string         `json:"id"`
	ClientName      string         `json:"clientName"`
	ClientPhone     string         `json:"clientPhone"`
	ClientAddress   string         `json:"clientAddress"`
	ClientNumber    string         `json:"clientNumber,omitempty"`
	AppointmentDate string         `json:"appointmentDate"` // yyyy-mm-dd, as booked
	AppointmentTime string         `json:"appointmentTime"` // hh:mm
	TechnicianID    string         `json:"technicianId"`
	AttendantID     string         `json:"attendantId,omitempty"`
	AttendantName   string         `json:"attendantName"`
	Description     string         `json:"description"`
	Status          ScheduleStatus `json:"status"`

	// Set at conclusion
	WorkDoneDescription string  `json:"workDoneDescription,omitempty"`
	FinalValue          float64 `json:"finalValue,omitempty"`
	CompletionDate      string  `json:"completionDate,omitempty"` // dd/mm/yyyy

	Transfers []TransferHistory `json:"transfers"`

	// Fields below exist in the data model but are not driven by any
	// operation; they are persisted and round-tripped untouched.
	StartTime          string        `json:"startTime,omitempty"`
	EndTime            string        `json:"endTime,omitempty"`
	TotalServiceValue  float64       `json:"totalServiceValue,omitempty"`
	DepositValue       float64       `json:"depositValue,omitempty"`
	BalanceValue       float64       `json:"balanceValue,omitempty"`
	ReviewStars        int           `json:"reviewStars,omitempty"`
	ReviewComment      string        `json:"reviewComment,omitempty"`
	ReviewLinkShared   bool          `json:"reviewLinkShared,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	CancellationDate   string        `json:"cancellationDate,omitempty"`
	CancellationTime   string        `json:"cancellationTime,omitempty"`
	CancellationValue  float64       `json:"cancellationValue,omitempty"`
	ReminderType       string        `json:"reminderType,omitempty"`
	Messages           []ChatMessage `json:"messages,omitempty"`
}

// Clone returns a deep copy of the schedule
func (s Schedule) Clone() Schedule {
	out := s
	if s.Transfers != nil {
		out.Transfers = append([]TransferHistory(nil), s.Transfers...)
	}
	if s.Messages != nil {
		out.Messages = append([]ChatMessage(nil), s.Messages...)
	}
	return out
}

// IsTerminal reports whether no operation can move the schedule out of
// its current status
func (s Schedule) IsTerminal() bool {
	return s.Status == StatusConcluded || s.Status == StatusCancelled
}

// NotificationType classifies a notification
type NotificationType string

const (
	NotifySale     NotificationType = "SALE"
	NotifySchedule NotificationType = "SCHEDULE"
	NotifyReminder NotificationType = "REMINDER"
)

// Notification represents an in-app notification
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
	Read      bool             `json:"read"`
	Type      NotificationType `json:"type"`
	RefID     string           `json:"refId,omitempty"`
}

// Sale represents a store sale recorded by an attendant
type Sale struct {
	ID                 string  `json:"id"`
	AttendantID        string  `json:"attendantId"`
	AttendantName      string  `json:"attendantName"`
	ProductDescription string  `json:"productDescription"`
	SaleValue          float64 `json:"saleValue"`
	Date               string  `json:"date"` // dd/mm/yyyy
	CommissionValue    float64 `json:"commissionValue"`
}

// ExpenseCategory classifies an expense
type ExpenseCategory string

const (
	ExpenseFuel  ExpenseCategory = "GASOLINA"
	ExpenseParts ExpenseCategory = "PECAS"
	ExpenseFood  ExpenseCategory = "ALIMENTACAO"
	ExpenseTools ExpenseCategory = "FERRAMENTAS"
	ExpenseOther ExpenseCategory = "OUTROS"
)

// IsValid reports whether the category is one of the known categories
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseFuel, ExpenseParts, ExpenseFood, ExpenseTools, ExpenseOther:
		return true
	}
	return false
}

// Expense represents an operational expense, optionally tied to a technician
type Expense struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Category       ExpenseCategory `json:"category"`
	TechnicianID   string          `json:"technicianId,omitempty"`
	TechnicianName string          `json:"technicianName,omitempty"`
	Value          float64         `json:"value"`
	Date           string          `json:"date"` // dd/mm/yyyy
}

// Commission payment types
const (
	PaymentFull    = "FULL"
	PaymentPartial = "PARTIAL"
)

// CommissionPayment represents a commission payout to a staff member
type CommissionPayment struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	UserName string  `json:"userName"`
	Value    float64 `json:"value"`
	Date     string  `json:"date"` // dd/mm/yyyy
	Type     string  `json:"type"` // FULL | PARTIAL
}

// AppState is the aggregate root: every collection plus the signed-in user.
// The whole aggregate is the unit of persistence — each mutation writes the
// entire snapshot back to storage.
type AppState struct {
	Users              []User              `json:"users"`
	Schedules          []Schedule          `json:"schedules"`
	Sales              []Sale              `json:"sales"`
	Expenses           []Expense           `json:"expenses"`
	CommissionPayments []CommissionPayment `json:"commissionPayments"`
	Notifications      []Notification      `json:"notifications"`
	CurrentUserID      string              `json:"currentUserId,omitempty"`
}

// Clone returns a deep copy of the whole snapshot
func (s AppState) Clone() AppState {
	out := s
	if s.Users != nil {
		out.Users = append([]User(nil), s.Users...)
	}
	if s.Schedules != nil {
		out.Schedules = make([]Schedule, len(s.Schedules))
		for i, sc := range s.Schedules {
			out.Schedules[i] = sc.Clone()
		}
	}
	if s.Sales != nil {
		out.Sales = append([]Sale(nil), s.Sales...)
	}
	if s.Expenses != nil {
		out.Expenses = append([]Expense(nil), s.Expenses...)
	}
	if s.CommissionPayments != nil {
		out.CommissionPayments = append([]CommissionPayment(nil), s.CommissionPayments...)
	}
	if s.Notifications != nil {
		out.Notifications = append([]Notification(nil), s.Notifications...)
	}
	return out
}

// UserByID finds a user in the snapshot
func (s *AppState) UserByID(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// UserByEmail finds a user by email (case-insensitive)
func (s *AppState) UserByEmail(email string) *User {
	for i := range s.Users {
		if strings.EqualFold(s.Users[i].Email, email) {
			return &s.Users[i]
		}
	}
	return nil
}

// ScheduleByID finds a schedule in the snapshot
func (s *AppState) ScheduleByID(id string) *Schedule {
	for i := range s.Schedules {
		if s.Schedules[i].ID == id {
			return &s.Schedules[i]
		}
	}
	return nil
}

// AddNotification appends an in-app notification to the snapshot
func (s *AppState) AddNotification(id, title, message string, typ NotificationType, refID, timestamp string) {
	s.Notifications = append(s.Notifications, Notification{
		ID:        id,
		Title:     title,
		Message:   message,
		Timestamp: timestamp,
		Read:      false,
		Type:      typ,
		RefID:     refID,
	})
}
