package handlers

import "github.com/gin-gonic/gin"

func HomePage(c *gin.Context) {
	c.HTML(200, "home.html", gin.H{})
}

func SignInPage(c *gin.Context) {
	c.HTML(200, "signin.html", gin.H{})
}

func BecomeSupplierPage(c *gin.Context) {
	c.HTML(200, "become-supplier.html", gin.H{})
}

func AdminDashboardPage(c *gin.Context) {
	c.HTML(200, "dashboard.html", gin.H{})
}

func AdminSuppliersPage(c *gin.Context) {
	c.HTML(200, "suppliers.html", gin.H{})
}

func AdminApprovalsPage(c *gin.Context) {
	c.HTML(200, "approvals.html", gin.H{})
}

func AdminOrdersPage(c *gin.Context) {
	c.HTML(200, "orders.html", gin.H{})
}

func SupplierDashboardPage(c *gin.Context) {
	c.HTML(200, "supplier-dashboard.html", gin.H{})
}
