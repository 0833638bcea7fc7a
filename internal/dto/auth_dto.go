package dto

type RegistroRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Nombre   string `json:"nombre" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UsuarioResponse struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	Nombre            string  `json:"nombre"`
	Rol               string  `json:"rol"`
	EstadoSuscripcion string  `json:"estado_suscripcion,omitempty"`
	SeHizoPropietario *string `json:"se_hizo_propietario,omitempty"`
	Activo            bool    `json:"activo"`
}

type CambiarRolRequest struct {
	Rol string `json:"rol" validate:"required,oneof=cliente propietario administrador"`
}
