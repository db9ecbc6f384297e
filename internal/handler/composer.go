package handler

import (
	"fmt"

	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/deppfellow/repertoire/internal/service"
	"github.com/labstack/echo/v4"
)

type ComposerHandler struct {
	Handler
	composers *service.ComposerService
}

func NewComposerHandler(s *server.Server, composers *service.ComposerService) *ComposerHandler {
	return &ComposerHandler{
		Handler:   NewHandler(s),
		composers: composers,
	}
}

func (h *ComposerHandler) List(c echo.Context, req *model.ListComposersRequest) (model.DataResponse[[]model.Composer], error) {
	composers, err := h.composers.List(c.Request().Context())
	if err != nil {
		return model.DataResponse[[]model.Composer]{}, err
	}
	return model.DataResponse[[]model.Composer]{
		Data:   composers,
		Detail: "Composers fetched successfully.",
	}, nil
}

func (h *ComposerHandler) Create(c echo.Context, req *model.CreateComposerRequest) (model.DataResponse[model.Composer], error) {
	composer, err := h.composers.Create(c.Request().Context(), req)
	if err != nil {
		return model.DataResponse[model.Composer]{}, err
	}
	return model.DataResponse[model.Composer]{
		Data:   *composer,
		Detail: "Composer added successfully.",
	}, nil
}

func (h *ComposerHandler) Update(c echo.Context, req *model.UpdateComposerRequest) (model.ChangeResponse[model.Composer], error) {
	old, updated, err := h.composers.Update(c.Request().Context(), req)
	if err != nil {
		return model.ChangeResponse[model.Composer]{}, err
	}
	return model.ChangeResponse[model.Composer]{
		OldData: old,
		NewData: updated,
		Detail:  fmt.Sprintf("Composer with ID: %d has been successfully updated.", req.ID),
	}, nil
}

func (h *ComposerHandler) Delete(c echo.Context, req *model.DeleteComposerRequest) (model.DataResponse[model.Composer], error) {
	composer, err := h.composers.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return model.DataResponse[model.Composer]{}, err
	}
	return model.DataResponse[model.Composer]{
		Data:   *composer,
		Detail: fmt.Sprintf("Composer with composer ID: %d has successfully been deleted.", req.ID),
	}, nil
}
