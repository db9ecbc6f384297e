package handler

import (
	"fmt"
	"net/url"

	"github.com/deppfellow/repertoire/internal/errs"
	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/deppfellow/repertoire/internal/service"
	"github.com/labstack/echo/v4"
)

type PieceHandler struct {
	Handler
	pieces *service.PieceService
}

func NewPieceHandler(s *server.Server, pieces *service.PieceService) *PieceHandler {
	return &PieceHandler{
		Handler: NewHandler(s),
		pieces:  pieces,
	}
}

func (h *PieceHandler) List(c echo.Context, req *model.ListPiecesRequest) (model.DataResponse[[]model.Piece], error) {
	pieces, err := h.pieces.List(c.Request().Context(), req)
	if err != nil {
		return model.DataResponse[[]model.Piece]{}, err
	}
	return model.DataResponse[[]model.Piece]{
		Data:   pieces,
		Detail: "Pieces fetched successfully.",
	}, nil
}

func (h *PieceHandler) Create(c echo.Context, req *model.CreatePieceRequest) (model.DataResponse[model.Piece], error) {
	piece, err := h.pieces.Create(c.Request().Context(), req)
	if err != nil {
		return model.DataResponse[model.Piece]{}, err
	}
	return model.DataResponse[model.Piece]{
		Data:   *piece,
		Detail: "Piece added successfully.",
	}, nil
}

// pieceName returns the :name path parameter decoded. Echo routes on the
// escaped path whenever the request carries one, and then hands parameters
// over still percent-encoded.
func pieceName(c echo.Context, name string) (string, error) {
	if c.Request().URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", errs.NewBadRequestError("Invalid value for name.", true, nil,
			[]errs.FieldError{{Field: "name", Error: "must be a valid path segment"}})
	}
	return decoded, nil
}

func (h *PieceHandler) Update(c echo.Context, req *model.UpdatePieceRequest) (model.ChangeResponse[model.Piece], error) {
	target, err := pieceName(c, req.Target)
	if err != nil {
		return model.ChangeResponse[model.Piece]{}, err
	}
	req.Target = target

	old, updated, err := h.pieces.Update(c.Request().Context(), req)
	if err != nil {
		return model.ChangeResponse[model.Piece]{}, err
	}
	return model.ChangeResponse[model.Piece]{
		OldData: old,
		NewData: updated,
		Detail:  fmt.Sprintf("Piece with name: %s has been successfully updated.", req.Target),
	}, nil
}

func (h *PieceHandler) Delete(c echo.Context, req *model.DeletePieceRequest) (model.DataResponse[model.Piece], error) {
	name, err := pieceName(c, req.Name)
	if err != nil {
		return model.DataResponse[model.Piece]{}, err
	}
	req.Name = name

	piece, err := h.pieces.Delete(c.Request().Context(), req.Name)
	if err != nil {
		return model.DataResponse[model.Piece]{}, err
	}
	return model.DataResponse[model.Piece]{
		Data:   *piece,
		Detail: fmt.Sprintf("Piece name: '%s' has successfully been deleted.", req.Name),
	}, nil
}
