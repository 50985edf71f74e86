package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dirge/di"
)

// Dependencies returns a handler listing every name known to the registry
// with whether it has a factory and the state of its cached instance.
func Dependencies(r *di.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		regs := r.Registrations()
		counts := map[string]int{}
		for _, reg := range regs {
			counts[reg.StateName]++
		}
		c.JSON(http.StatusOK, gin.H{
			"registry":     r.ID(),
			"closed":       r.Closed(),
			"count":        len(regs),
			"states":       counts,
			"dependencies": regs,
		})
	}
}
