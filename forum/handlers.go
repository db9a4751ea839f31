// forum/handlers.go
package forum

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"goforum/internal/logger"
)

// Page carries the fields every view needs.
type Page struct {
	Flash  *Flash
	UserID string
}

// TopicsViewData is the data structure for the topic list page.
type TopicsViewData struct {
	Page
	Topics []Topic
}

// FormViewData is the data structure for the register, login and new-topic
// pages.
type FormViewData struct {
	Page
	Form   any
	Errors map[string]string
}

// TopicViewData is the data structure for the single topic page, including
// the inline reply form.
type TopicViewData struct {
	Page
	Topic   *Topic
	Replies []Reply
	Form    ReplyForm
	Errors  map[string]string
}

// EditTopicViewData is the data structure for the topic edit page.
type EditTopicViewData struct {
	Page
	Topic  *Topic
	Form   TopicForm
	Errors map[string]string
}

type Handlers struct {
	store     Store
	templates *template.Template
	log       *logger.Logger

	Session *SessionManager
}

func NewHandlers(store Store, sessions *SessionManager, templateGlob string, log *logger.Logger) (*Handlers, error) {
	tpl, err := template.ParseGlob(templateGlob)
	if err != nil {
		return nil, err
	}
	return &Handlers{store: store, templates: tpl, log: log, Session: sessions}, nil
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.listTopics)
	mux.HandleFunc("GET /register", h.showRegister)
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("GET /login", h.showLogin)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /logout", h.requireAuth(h.logout))
	mux.HandleFunc("GET /forum/new", h.requireAuth(h.showNewTopic))
	mux.HandleFunc("POST /forum/new", h.requireAuth(h.createTopic))
	mux.HandleFunc("GET /topic/{id}", h.showTopic)
	mux.HandleFunc("POST /topic/{id}", h.requireAuth(h.createReply))
	mux.HandleFunc("GET /topic/{id}/edit", h.requireAuth(h.showEditTopic))
	mux.HandleFunc("POST /topic/{id}/edit", h.requireAuth(h.editTopic))
	mux.HandleFunc("GET /healthz", h.health)
}

// requireAuth short-circuits anonymous requests to the login page. The
// wrapped handler body never runs for an anonymous session.
func (h *Handlers) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.Session.CurrentUserID(r.Context()) == "" {
			h.Session.PutFlash(r.Context(), "danger", "Please log in to continue.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *Handlers) newPage(r *http.Request) Page {
	return Page{
		Flash:  h.Session.PopFlash(r.Context()),
		UserID: h.Session.CurrentUserID(r.Context()),
	}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Errorw("template_render_failed", "view", name, "err", err)
	}
}

// listTopics renders the front page with every topic in insertion order.
func (h *Handlers) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.ListTopics(r.Context())
	if err != nil {
		h.log.Errorw("list_topics_failed", "err", err)
		http.Error(w, "Failed to retrieve topics", http.StatusInternalServerError)
		return
	}
	h.render(w, "index.html", TopicsViewData{Page: h.newPage(r), Topics: topics})
}

func (h *Handlers) showRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", FormViewData{Page: h.newPage(r), Form: &RegistrationForm{}})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	form.Bind(r)
	if errs := form.Validate(); errs != nil {
		h.render(w, "register.html", FormViewData{Page: h.newPage(r), Form: &form, Errors: errs})
		return
	}

	user := NewUser(form.Username)
	if err := user.SetPassword(form.Password); err != nil {
		h.log.Errorw("password_hash_failed", "err", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	err := h.store.CreateUser(r.Context(), user)
	if errors.Is(err, ErrDuplicateUsername) {
		errs := map[string]string{"username": "That username is already taken."}
		h.render(w, "register.html", FormViewData{Page: h.newPage(r), Form: &form, Errors: errs})
		return
	}
	if err != nil {
		h.log.Errorw("create_user_failed", "err", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	h.Session.PutFlash(r.Context(), "success", "Account created! You can now log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handlers) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", FormViewData{Page: h.newPage(r), Form: &LoginForm{}})
}

// login re-renders with a failure notice on bad credentials rather than
// returning an error status. An unknown username and a wrong password look
// identical to the client.
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	form.Bind(r)
	if errs := form.Validate(); errs != nil {
		h.render(w, "login.html", FormViewData{Page: h.newPage(r), Form: &form, Errors: errs})
		return
	}

	user, err := h.authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		h.Session.PutFlash(r.Context(), "danger", "Login failed. Check your username/password.")
		h.render(w, "login.html", FormViewData{Page: h.newPage(r), Form: &form})
		return
	}
	if err != nil {
		h.log.Errorw("get_user_failed", "err", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	if err := h.Session.SignIn(r.Context(), user.ID); err != nil {
		h.log.Errorw("session_signin_failed", "err", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	h.Session.PutFlash(r.Context(), "success", "Logged in successfully.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.SignOut(r.Context()); err != nil {
		h.log.Errorw("session_signout_failed", "err", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) showNewTopic(w http.ResponseWriter, r *http.Request) {
	h.render(w, "new_topic.html", FormViewData{Page: h.newPage(r), Form: &TopicForm{}})
}

func (h *Handlers) createTopic(w http.ResponseWriter, r *http.Request) {
	var form TopicForm
	form.Bind(r)
	if errs := form.Validate(); errs != nil {
		h.render(w, "new_topic.html", FormViewData{Page: h.newPage(r), Form: &form, Errors: errs})
		return
	}

	topic := Topic{
		ID:      uuid.New().String(),
		Title:   form.Title,
		Content: form.Content,
		OwnerID: h.Session.CurrentUserID(r.Context()),
	}
	if err := h.store.CreateTopic(r.Context(), &topic); err != nil {
		h.log.Errorw("create_topic_failed", "err", err)
		http.Error(w, "Failed to create topic", http.StatusInternalServerError)
		return
	}

	h.Session.PutFlash(r.Context(), "success", "New topic created!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// showTopic renders a topic with its replies and the inline reply form.
func (h *Handlers) showTopic(w http.ResponseWriter, r *http.Request) {
	topic, replies, ok := h.loadTopic(w, r)
	if !ok {
		return
	}
	h.render(w, "topic.html", TopicViewData{Page: h.newPage(r), Topic: topic, Replies: replies})
}

// createReply posts a reply under an existing topic. Authentication is
// required so every reply has a valid owner.
func (h *Handlers) createReply(w http.ResponseWriter, r *http.Request) {
	topic, replies, ok := h.loadTopic(w, r)
	if !ok {
		return
	}

	var form ReplyForm
	form.Bind(r)
	if errs := form.Validate(); errs != nil {
		h.render(w, "topic.html", TopicViewData{
			Page: h.newPage(r), Topic: topic, Replies: replies, Form: form, Errors: errs,
		})
		return
	}

	reply := Reply{
		TopicID: topic.ID,
		OwnerID: h.Session.CurrentUserID(r.Context()),
		Content: form.Content,
	}
	err := h.store.CreateReply(r.Context(), &reply)
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Errorw("create_reply_failed", "topic", topic.ID, "err", err)
		http.Error(w, "Failed to post reply", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/topic/"+topic.ID, http.StatusSeeOther)
}

func (h *Handlers) showEditTopic(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.loadOwnedTopic(w, r)
	if !ok {
		return
	}
	form := TopicForm{Title: topic.Title, Content: topic.Content}
	h.render(w, "edit_topic.html", EditTopicViewData{Page: h.newPage(r), Topic: topic, Form: form})
}

func (h *Handlers) editTopic(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.loadOwnedTopic(w, r)
	if !ok {
		return
	}

	var form TopicForm
	form.Bind(r)
	if errs := form.Validate(); errs != nil {
		h.render(w, "edit_topic.html", EditTopicViewData{
			Page: h.newPage(r), Topic: topic, Form: form, Errors: errs,
		})
		return
	}

	if err := h.store.UpdateTopic(r.Context(), topic.ID, form.Title, form.Content); err != nil {
		h.log.Errorw("update_topic_failed", "topic", topic.ID, "err", err)
		http.Error(w, "Failed to update topic", http.StatusInternalServerError)
		return
	}

	h.Session.PutFlash(r.Context(), "success", "Topic updated successfully!")
	http.Redirect(w, r, "/topic/"+topic.ID, http.StatusSeeOther)
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(`{"ok":true}`))
}

// loadTopic fetches the topic named in the path plus its replies, writing
// the error response itself when anything is missing.
func (h *Handlers) loadTopic(w http.ResponseWriter, r *http.Request) (*Topic, []Reply, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		http.NotFound(w, r)
		return nil, nil, false
	}

	topic, err := h.store.GetTopic(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		h.log.Errorw("get_topic_failed", "topic", id, "err", err)
		http.Error(w, "Failed to retrieve topic", http.StatusInternalServerError)
		return nil, nil, false
	}

	replies, err := h.store.ListReplies(r.Context(), id)
	if err != nil {
		h.log.Errorw("list_replies_failed", "topic", id, "err", err)
		http.Error(w, "Failed to retrieve replies", http.StatusInternalServerError)
		return nil, nil, false
	}
	return topic, replies, true
}

// loadOwnedTopic is loadTopic plus the ownership check used by the edit
// handlers. Non-owners are bounced back to the topic view without any
// mutation.
func (h *Handlers) loadOwnedTopic(w http.ResponseWriter, r *http.Request) (*Topic, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	topic, err := h.editableTopic(r.Context(), id, h.currentUser(r))
	if errors.Is(err, ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if errors.Is(err, ErrNotOwner) {
		h.Session.PutFlash(r.Context(), "danger", "You are not allowed to edit this topic.")
		http.Redirect(w, r, "/topic/"+topic.ID, http.StatusSeeOther)
		return nil, false
	}
	if err != nil {
		h.log.Errorw("get_topic_failed", "topic", id, "err", err)
		http.Error(w, "Failed to retrieve topic", http.StatusInternalServerError)
		return nil, false
	}
	return topic, true
}

// editableTopic fetches a topic and authorizes ident to mutate it. On
// ErrNotOwner the topic is still returned so the caller can redirect to it.
func (h *Handlers) editableTopic(ctx context.Context, id string, ident Identifiable) (*Topic, error) {
	topic, err := h.store.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident == nil || topic.OwnerID != ident.Identity() {
		return topic, ErrNotOwner
	}
	return topic, nil
}

// authenticate looks up the user and checks the password. Both an unknown
// username and a wrong password come back as ErrInvalidCredentials.
func (h *Handlers) authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := h.store.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.PasswordMatches(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// currentUser resolves the session identity to its User record, or nil for
// an anonymous session.
func (h *Handlers) currentUser(r *http.Request) Identifiable {
	id := h.Session.CurrentUserID(r.Context())
	if id == "" {
		return nil
	}
	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return user
}
