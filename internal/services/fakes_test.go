package services

import (
	"sort"
	"sync"
	"time"

	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/internal/workers"

	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. TransitionStatus
// mirrors the conditional-write contract of the real stores: the
// update applies only while the row is in one of the expected states.

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// --- requests ---

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*models.Request{}}
}

func (r *fakeRequestRepo) CreateRequest(request *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	request.CreatedAt = time.Now()
	cp := *request
	r.requests[request.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) FindRequestByID(id string) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequestRepo) UpdateRequest(id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return repositories.ErrRequestNotFound
	}
	applyRequestUpdates(req, updates)
	return nil
}

func (r *fakeRequestRepo) TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return false, nil
	}
	if !contains(from, req.Status) {
		return false, nil
	}
	applyRequestUpdates(req, updates)
	return true, nil
}

func (r *fakeRequestRepo) FindCompanyRequests(companyID string, page, pageSize int) ([]models.Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Request
	for _, req := range r.requests {
		if req.CompanyID == companyID {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func applyRequestUpdates(req *models.Request, updates map[string]interface{}) {
	for k, v := range updates {
		switch k {
		case "status":
			req.Status = v.(string)
		case "notes":
			req.Notes = v.(string)
		}
	}
}

// --- quotes ---

type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes map[string]*models.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: map[string]*models.Quote{}}
}

func (r *fakeQuoteRepo) CreateQuote(quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	if quote.Status == "" {
		quote.Status = models.QuoteStatusDraft
	}
	quote.CreatedAt = time.Now()
	cp := *quote
	cp.LineItems = append([]models.QuoteLineItem(nil), quote.LineItems...)
	r.quotes[quote.ID] = &cp
	return nil
}

func (r *fakeQuoteRepo) FindQuoteByID(id string) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[id]
	if !ok {
		return nil, repositories.ErrQuoteNotFound
	}
	cp := *quote
	cp.LineItems = append([]models.QuoteLineItem(nil), quote.LineItems...)
	return &cp, nil
}

func (r *fakeQuoteRepo) UpdateQuote(id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[id]
	if !ok {
		return repositories.ErrQuoteNotFound
	}
	applyQuoteUpdates(quote, updates)
	return nil
}

func (r *fakeQuoteRepo) ReplaceLineItems(quoteID string, items []models.QuoteLineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[quoteID]
	if !ok {
		return repositories.ErrQuoteNotFound
	}
	quote.LineItems = append([]models.QuoteLineItem(nil), items...)
	return nil
}

func (r *fakeQuoteRepo) TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[id]
	if !ok {
		return false, nil
	}
	if !contains(from, quote.Status) {
		return false, nil
	}
	applyQuoteUpdates(quote, updates)
	return true, nil
}

func (r *fakeQuoteRepo) FindActiveQuoteByRequest(requestID string) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Quote
	for _, quote := range r.quotes {
		if quote.RequestID != requestID {
			continue
		}
		if latest == nil || quote.CreatedAt.After(latest.CreatedAt) {
			latest = quote
		}
	}
	if latest == nil {
		return nil, repositories.ErrQuoteNotFound
	}
	cp := *latest
	return &cp, nil
}

func applyQuoteUpdates(quote *models.Quote, updates map[string]interface{}) {
	for k, v := range updates {
		switch k {
		case "status":
			quote.Status = v.(string)
		case "sent_at":
			t := v.(time.Time)
			quote.SentAt = &t
		case "subtotal":
			quote.Subtotal = v.(float64)
		case "discount_amount":
			quote.DiscountAmount = v.(float64)
		case "total":
			quote.Total = v.(float64)
		case "accepted_at":
			t := v.(time.Time)
			quote.AcceptedAt = &t
		case "accepted_by":
			s := v.(string)
			quote.AcceptedBy = &s
		case "signature_name":
			quote.SignatureName = v.(string)
		case "decline_reason":
			quote.DeclineReason = v.(string)
		case "revision_message":
			quote.RevisionMessage = v.(string)
		case "discount_type":
			quote.DiscountType = v.(string)
		case "discount_value":
			quote.DiscountValue = v.(float64)
		case "terms":
			quote.Terms = v.(string)
		case "valid_until":
			t := v.(time.Time)
			quote.ValidUntil = &t
		}
	}
}

// --- jobs ---

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*models.Job{}}
}

func (r *fakeJobRepo) CreateJob(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.jobs {
		if existing.QuoteID == job.QuoteID {
			return repositories.ErrJobAlreadyExists
		}
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPickupScheduled
	}
	job.CreatedAt = time.Now()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindJobByID(id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) FindJobByQuoteID(quoteID string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.QuoteID == quoteID {
			cp := *job
			return &cp, nil
		}
	}
	return nil, repositories.ErrJobNotFound
}

func (r *fakeJobRepo) UpdateJob(id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	applyJobUpdates(job, updates)
	return nil
}

func (r *fakeJobRepo) TransitionStatus(id string, from []string, updates map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return false, nil
	}
	if !contains(from, job.Status) {
		return false, nil
	}
	applyJobUpdates(job, updates)
	return true, nil
}

func (r *fakeJobRepo) FindCompanyJobs(companyID string, page, pageSize int) ([]models.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, job := range r.jobs {
		if job.CompanyID == companyID {
			out = append(out, *job)
		}
	}
	return out, int64(len(out)), nil
}

func applyJobUpdates(job *models.Job, updates map[string]interface{}) {
	for k, v := range updates {
		switch k {
		case "status":
			job.Status = v.(string)
		case "pickup_complete_at":
			t := v.(time.Time)
			job.PickupCompleteAt = &t
		case "processing_started_at":
			t := v.(time.Time)
			job.ProcessingStartedAt = &t
		case "completed_at":
			t := v.(time.Time)
			job.CompletedAt = &t
		}
	}
}

// --- users ---

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	companies map[string]*models.Company
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     map[string]*models.User{},
		companies: map[string]*models.Company{},
	}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindStaffUsers() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		if user.Role == models.UserRoleStaff && user.IsActive {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindCompanyUsers(companyID string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		if user.CompanyID != nil && *user.CompanyID == companyID && user.IsActive {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CreateCompany(company *models.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	cp := *company
	r.companies[company.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindCompanyByID(id string) (*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	company, ok := r.companies[id]
	if !ok {
		return nil, repositories.ErrCompanyNotFound
	}
	cp := *company
	return &cp, nil
}

// --- notifications ---

type fakeNotificationRepo struct {
	mu        sync.Mutex
	rows      []*models.Notification
	createErr error
	emailSent []string
	pushSent  []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now()
	r.rows = append(r.rows, notification)
	return nil
}

func (r *fakeNotificationRepo) CreateBulkNotifications(notifications []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		n.CreatedAt = time.Now()
		r.rows = append(r.rows, n)
	}
	return nil
}

func (r *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.UserID != userID || n.IsDismissed {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		if criteria.Type != "" && n.Type != criteria.Type {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.IsRead && !n.IsDismissed {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == notificationID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, n := range r.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkDismissed(notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ID == notificationID {
			now := time.Now()
			n.IsDismissed = true
			n.DismissedAt = &now
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkEmailSent(notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emailSent = append(r.emailSent, notificationID)
	return nil
}

func (r *fakeNotificationRepo) MarkPushSent(notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushSent = append(r.pushSent, notificationID)
	return nil
}

func (r *fakeNotificationRepo) forUser(userID string) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}

// --- timeline ---

type fakeTimelineRepo struct {
	mu        sync.Mutex
	events    []models.TimelineEvent
	createErr error
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{}
}

func (r *fakeTimelineRepo) CreateEvent(event *models.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = time.Now()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeTimelineRepo) FindEntityEvents(entityType, entityID string) ([]models.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimelineEvent
	for _, e := range r.events {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTimelineRepo) entityEvents(entityType, entityID string) []models.TimelineEvent {
	out, _ := r.FindEntityEvents(entityType, entityID)
	return out
}

// --- delivery queue ---

type captureQueue struct {
	mu    sync.Mutex
	tasks []workers.DeliveryTask
}

func (q *captureQueue) Enqueue(task workers.DeliveryTask) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

func (q *captureQueue) all() []workers.DeliveryTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]workers.DeliveryTask(nil), q.tasks...)
}
