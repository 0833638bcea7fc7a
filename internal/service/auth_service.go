package service

import (
	"context"
	"errors"
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/apierror"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/config"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/dto"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/middleware"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// HacersePropietario upgrades a customer to business owner and starts
	// the subscription trial clock.
	HacersePropietario(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error)
	CambiarRol(ctx context.Context, usuarioID uuid.UUID, rol model.Rol) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Validation("ya existe una cuenta con ese email")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usuario := &model.Usuario{
		Email:        req.Email,
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Rol:          model.RolCliente,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return usuarioToResponse(usuario), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("credenciales invalidas")
	}
	if !usuario.Activo {
		return nil, errors.New("credenciales invalidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales invalidas")
	}

	accessToken, err := s.generateToken(usuario, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(usuario, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *usuarioToResponse(usuario),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("refresh token invalido o expirado")
	}
	sub, _ := claims["user_id"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("refresh token invalido o expirado")
	}
	usuario, err := s.repo.FindByID(ctx, id)
	if err != nil || !usuario.Activo {
		return nil, errors.New("refresh token invalido o expirado")
	}

	accessToken, err := s.generateToken(usuario, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.generateToken(usuario, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *usuarioToResponse(usuario),
	}, nil
}

func (s *authService) HacersePropietario(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioResponse, error) {
	usuario, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NotFound("usuario no encontrado")
	}
	if usuario.Rol == model.RolPropietario {
		return nil, apierror.InvalidState("el usuario ya es propietario")
	}
	if usuario.Rol == model.RolAdministrador {
		return nil, apierror.InvalidState("un administrador no puede convertirse en propietario")
	}
	ahora := s.now()
	usuario.Rol = model.RolPropietario
	usuario.SeHizoPropietario = &ahora
	usuario.EstadoSuscripcion = model.SuscripcionTrial
	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, err
	}
	return usuarioToResponse(usuario), nil
}

func (s *authService) CambiarRol(ctx context.Context, usuarioID uuid.UUID, rol model.Rol) (*dto.UsuarioResponse, error) {
	usuario, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, apierror.NotFound("usuario no encontrado")
	}
	if rol == model.RolPropietario && usuario.SeHizoPropietario == nil {
		ahora := s.now()
		usuario.SeHizoPropietario = &ahora
	}
	usuario.Rol = rol
	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, err
	}
	return usuarioToResponse(usuario), nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, *usuarioToResponse(&usuarios[i]))
	}
	return out, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *authService) generateToken(u *model.Usuario, ttl time.Duration) (string, error) {
	now := s.now()
	claims := middleware.JWTClaims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Rol:    string(u.Rol),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	resp := &dto.UsuarioResponse{
		ID:                u.ID.String(),
		Email:             u.Email,
		Nombre:            u.Nombre,
		Rol:               string(u.Rol),
		EstadoSuscripcion: string(u.EstadoSuscripcion),
		Activo:            u.Activo,
	}
	if u.SeHizoPropietario != nil {
		f := u.SeHizoPropietario.Format("2006-01-02T15:04:05Z")
		resp.SeHizoPropietario = &f
	}
	return resp
}
