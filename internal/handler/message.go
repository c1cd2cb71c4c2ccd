package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/middleware"
	"github.com/sarmin881340/taka-portal/internal/model"
)

const memberNotFoundMsg = "No member found with that ID."

// MessageHandler serves the two-party messaging pages.  Counterparties are
// looked up by their external member id, never by the internal numeric id.
type MessageHandler struct {
	Users    UserStore
	Messages MessageStore
}

func NewMessageHandler(users UserStore, messages MessageStore) *MessageHandler {
	return &MessageHandler{Users: users, Messages: messages}
}

// MessagesPage renders the empty messages view with the member search form.
func (h *MessageHandler) MessagesPage(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Render(http.StatusOK, "messages.html", echo.Map{"User": u})
}

// SearchUser resolves a counterparty by member id and shows the conversation.
// Searching for yourself is treated the same as an unknown id.
func (h *MessageHandler) SearchUser(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	found, err := h.Users.GetByMemberID(c.Request().Context(), c.FormValue("searchUserId"))
	if err != nil || found.ID == u.ID {
		return c.Render(http.StatusOK, "messages.html", echo.Map{
			"User":  u,
			"Error": memberNotFoundMsg,
		})
	}
	return h.renderConversation(c, u, found)
}

// SendMessage stores a trimmed, non-empty message for a resolved receiver and
// redirects back into the conversation.  A missing receiver redirects to the
// messages page with an error instead of faulting.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	receiverID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("receiverId")), 10, 64)
	if err != nil {
		return c.Render(http.StatusBadRequest, "messages.html", echo.Map{
			"User":  u,
			"Error": memberNotFoundMsg,
		})
	}
	receiver, err := h.Users.GetByID(c.Request().Context(), receiverID)
	if err != nil || receiver.ID == u.ID {
		return c.Render(http.StatusNotFound, "messages.html", echo.Map{
			"User":  u,
			"Error": memberNotFoundMsg,
		})
	}

	if body := model.NormalizeBody(c.FormValue("messageText")); body != "" {
		if _, err := h.Messages.Create(c.Request().Context(), u.ID, receiver.ID, body); err != nil {
			return c.Render(http.StatusInternalServerError, "messages.html", echo.Map{
				"User":  u,
				"Error": "Could not send the message. Please try again.",
			})
		}
	}
	// Empty bodies are dropped silently, as the original did, but the flow
	// still lands back in the conversation.
	return c.Redirect(http.StatusSeeOther, "/search_user_redirect/"+receiver.MemberID)
}

// Conversation renders the conversation with the counterparty named in the
// path (GET /search_user_redirect/:memberId).
func (h *MessageHandler) Conversation(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	found, err := h.Users.GetByMemberID(c.Request().Context(), c.Param("memberId"))
	if err != nil || found.ID == u.ID {
		return c.Redirect(http.StatusSeeOther, "/messages")
	}
	return h.renderConversation(c, u, found)
}

func (h *MessageHandler) renderConversation(c echo.Context, u, found model.User) error {
	msgs, err := h.Messages.Conversation(c.Request().Context(), u.ID, found.ID)
	if err != nil {
		return c.Render(http.StatusInternalServerError, "messages.html", echo.Map{
			"User":  u,
			"Error": "Could not load the conversation. Please try again.",
		})
	}
	return c.Render(http.StatusOK, "messages.html", echo.Map{
		"User":      u,
		"FoundUser": found,
		"Messages":  msgs,
	})
}
