package service

import (
	"context"
	"strings"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"

	"github.com/google/uuid"
)

type ProductoService interface {
	Crear(ctx context.Context, propietarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	AjustarStock(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID, req dto.AjustarStockRequest) error
	Desactivar(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID) error
}

type productoService struct {
	repo        repository.ProductoRepository
	negocioRepo repository.NegocioRepository
}

func NewProductoService(repo repository.ProductoRepository, negocioRepo repository.NegocioRepository) ProductoService {
	return &productoService{repo: repo, negocioRepo: negocioRepo}
}

func (s *productoService) Crear(ctx context.Context, propietarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	negocio, err := s.negocioRepo.FindByPropietarioID(ctx, propietarioID)
	if err != nil {
		return nil, apierror.NotFound("el propietario no tiene un negocio registrado")
	}
	if req.Precio.IsNegative() {
		return nil, apierror.Validation("el precio no puede ser negativo")
	}
	producto := &model.Producto{
		NegocioID:   negocio.ID,
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Stock:       req.Stock,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("producto no encontrado")
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.propio(ctx, propietarioID, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		producto.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, apierror.Validation("el precio no puede ser negativo")
		}
		producto.Precio = *req.Precio
	}
	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) AjustarStock(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID, req dto.AjustarStockRequest) error {
	if _, err := s.propio(ctx, propietarioID, id); err != nil {
		return err
	}
	if err := s.repo.AjustarStock(ctx, id, req.Delta); err != nil {
		if err == repository.ErrStockInsuficiente {
			return apierror.Validation("el ajuste dejaría el stock en negativo")
		}
		return err
	}
	return nil
}

func (s *productoService) Desactivar(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID) error {
	if _, err := s.propio(ctx, propietarioID, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// propio loads a product and verifies it belongs to the owner's business.
func (s *productoService) propio(ctx context.Context, propietarioID uuid.UUID, id uuid.UUID) (*model.Producto, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("producto no encontrado")
	}
	negocio, err := s.negocioRepo.FindByPropietarioID(ctx, propietarioID)
	if err != nil || negocio.ID != producto.NegocioID {
		return nil, apierror.Forbidden("el producto no pertenece a su negocio")
	}
	return producto, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		NegocioID:   p.NegocioID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Activo:      p.Activo,
	}
}
