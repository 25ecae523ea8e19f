package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"filialpos/internal/apierror"
	"filialpos/internal/config"
	"filialpos/internal/dto"
	"filialpos/internal/model"
	"filialpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CriarUsuario(ctx context.Context, esc dto.Escopo, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, esc dto.Escopo) ([]dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ExcluirUsuario(ctx context.Context, esc dto.Escopo, id uuid.UUID) error
}

const bcryptCost = 12

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func mapUsuario(u model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID,
		Nome:     u.Nome,
		Email:    u.Email,
		Role:     u.Role,
		FilialID: u.FilialID,
		Ativo:    u.Ativo,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NaoAutorizado("credenciais inválidas")
		}
		return nil, repository.Traduzir(err, "usuário")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.NaoAutorizado("credenciais inválidas")
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.NaoAutorizado("refresh token inválido ou expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.NaoAutorizado("claims inválidas")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apierror.NaoAutorizado("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apierror.NaoAutorizado("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Ativo {
		return nil, apierror.NaoAutorizado("usuário não encontrado ou inativo")
	}
	return s.emitirTokens(user)
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapUsuario(*user),
	}, nil
}

// ── Gestão de usuários ───────────────────────────────────────────────────────
// Admins manage everyone. An afiliado manages only vendedores of its own filial.

func podeGerir(esc dto.Escopo, role string, filialID *uuid.UUID) bool {
	if esc.Admin() {
		return true
	}
	return esc.Role == model.RoleAfiliado && role == model.RoleVendedor && esc.Permite(filialID)
}

func (s *authService) CriarUsuario(ctx context.Context, esc dto.Escopo, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	filialID := req.FilialID
	if !esc.Admin() {
		filialID = esc.FilialID
	}
	if req.Role != model.RoleAdmin && filialID == nil {
		return nil, apierror.Validacao("filial_id é obrigatório para " + req.Role)
	}
	if req.Role == model.RoleAdmin {
		filialID = nil
	}
	if !podeGerir(esc, req.Role, filialID) {
		return nil, apierror.Proibido("sem permissão para criar usuário " + req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	user := &model.Usuario{
		Nome:         strings.TrimSpace(req.Nome),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
		FilialID:     filialID,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, repository.Traduzir(err, "usuário")
	}
	resp := mapUsuario(*user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, esc dto.Escopo) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, esc.Restringe())
	if err != nil {
		return nil, repository.Traduzir(err, "usuário")
	}
	resp := make([]dto.UsuarioResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, mapUsuario(u))
	}
	return resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, esc dto.Escopo, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repository.Traduzir(err, "usuário")
	}
	if !podeGerir(esc, user.Role, user.FilialID) {
		return nil, apierror.NaoEncontrado("usuário")
	}
	if req.Nome != "" {
		user.Nome = strings.TrimSpace(req.Nome)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != "" && req.Role != user.Role {
		if !podeGerir(esc, req.Role, user.FilialID) {
			return nil, apierror.Proibido("sem permissão para atribuir o papel " + req.Role)
		}
		if req.Role != model.RoleAdmin && user.FilialID == nil {
			return nil, apierror.Validacao("usuário sem filial não pode ter o papel " + req.Role)
		}
		user.Role = req.Role
		if req.Role == model.RoleAdmin {
			user.FilialID = nil
		}
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, apierror.Interno(err)
		}
		user.PasswordHash = string(hash)
	}
	if req.Ativo != nil {
		if !*req.Ativo && user.ID == esc.UsuarioID {
			return nil, apierror.Validacao("não é possível desativar o próprio usuário")
		}
		user.Ativo = *req.Ativo
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, repository.Traduzir(err, "usuário")
	}
	resp := mapUsuario(*user)
	return &resp, nil
}

func (s *authService) ExcluirUsuario(ctx context.Context, esc dto.Escopo, id uuid.UUID) error {
	if id == esc.UsuarioID {
		return apierror.Validacao("não é possível excluir o próprio usuário")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repository.Traduzir(err, "usuário")
	}
	if !podeGerir(esc, user.Role, user.FilialID) {
		return apierror.NaoEncontrado("usuário")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return repository.Traduzir(err, "usuário")
	}
	return nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	if user.FilialID != nil {
		claims["filial_id"] = user.FilialID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
