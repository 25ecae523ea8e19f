package handler

import (
	"net/http"
	"reflect"

	"filialpos/internal/apierror"
	"filialpos/internal/dto"
	"filialpos/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal validates as a float so min=0, gt=0 work on it.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parâmetros inválidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		if ves, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ves {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a uuid path parameter, writing 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(param+" inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderErro hands err to middleware.ErrorHandler, which picks the status.
func responderErro(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// escopo builds the service caller from the JWT claims. Malformed ids in the
// token yield an escopo that matches nothing.
func escopo(c *gin.Context) dto.Escopo {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return dto.Escopo{}
	}
	esc := dto.Escopo{Role: claims.Role}
	esc.UsuarioID, _ = uuid.Parse(claims.UserID)
	if claims.FilialID != "" {
		if id, err := uuid.Parse(claims.FilialID); err == nil {
			esc.FilialID = &id
		}
	}
	return esc
}
