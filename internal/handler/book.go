package handler

import (
	"errors"
	"net/http"

	"github.com/bookshelf/backend/internal/model"
	"github.com/bookshelf/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BookHandler struct {
	svc *service.BookService
	log logrus.FieldLogger
}

func NewBookHandler(svc *service.BookService, log logrus.FieldLogger) *BookHandler {
	return &BookHandler{svc: svc, log: log}
}

// ListBooks godoc
// @Summary List books with optional sorting
// @Tags books
// @Produce json
// @Param sortBy query string false "Field to sort by" Enums(price, rating)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Success 200 {array} model.Book
// @Failure 500 {string} string "Server error"
// @Router /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	sort := model.ParseBookSort(c.Query("sortBy"), c.Query("order"))

	books, err := h.svc.List(c.Request.Context(), sort)
	if err != nil {
		writeServerError(c, h.log, "list books", err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get a book by ID
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} model.Book
// @Failure 404 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeBookError(c, "get book", err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.BookInput true "Book fields"
// @Success 200 {object} model.Book
// @Failure 400 {object} model.MessageResponse
// @Failure 401 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var in model.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Msg: "Invalid request body"})
		return
	}

	book, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeServerError(c, h.log, "create book", err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook godoc
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body model.BookInput true "Fields to change"
// @Success 200 {object} model.Book
// @Failure 400 {object} model.MessageResponse
// @Failure 401 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var in model.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, model.MessageResponse{Msg: "Invalid request body"})
		return
	}

	book, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeBookError(c, "update book", err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Failure 500 {string} string "Server error"
// @Router /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeBookError(c, "delete book", err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Msg: "Book deleted"})
}

func (h *BookHandler) writeBookError(c *gin.Context, op string, err error) {
	if errors.Is(err, service.ErrBookNotFound) {
		c.JSON(http.StatusNotFound, model.MessageResponse{Msg: "Book not found"})
		return
	}
	writeServerError(c, h.log, op, err)
}
