package courierserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderdomain "github.com/Apurer/courier-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/courier-api/internal/domains/orders/ports"
	userhttpmapper "github.com/Apurer/courier-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"
)

// CustomerAPI gives administrators a customer view joined with their orders.
// Orders carry no account id, so a customer owns the orders sent from their phone.
type CustomerAPI struct {
	users  userports.Service
	orders orderports.Service
}

func NewCustomerAPI(users userports.Service, orders orderports.Service) CustomerAPI {
	return CustomerAPI{users: users, orders: orders}
}

type customerOrder struct {
	OrderID string    `json:"orderId"`
	Date    time.Time `json:"date"`
	Amount  float64   `json:"amount"`
	Status  string    `json:"status"`
}

// Get /api/admin/customers
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	ctx := c.Request.Context()
	customers, err := api.users.ListCustomers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := api.orders.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	bySender := map[string]int{}
	for _, o := range orders {
		bySender[o.SenderPhone]++
	}
	out := make([]userhttpmapper.CustomerSummary, 0, len(customers))
	for _, u := range customers {
		total := 0
		if u.Phone != "" {
			total = bySender[u.Phone]
		}
		out = append(out, userhttpmapper.ToCustomerSummary(u, total))
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

// Get /api/admin/customers/:customerId
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := api.users.Get(ctx, c.Param("customerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	var sent []*orderdomain.Order
	if user.Phone != "" {
		all, err := api.orders.ListByPhone(ctx, user.Phone)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, o := range all {
			if o.SenderPhone == user.Phone {
				sent = append(sent, o)
			}
		}
	}
	history := make([]customerOrder, 0, len(sent))
	for _, o := range sent {
		history = append(history, customerOrder{OrderID: o.ID, Date: o.CreatedAt, Amount: o.TotalAmount, Status: string(o.Status)})
	}
	c.JSON(http.StatusOK, gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"contact": user.Phone,
		"orders":  history,
	})
}
