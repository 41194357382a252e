package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"user_management/internal/domain" // Domain models
	"user_management/internal/errs"   // Failure kinds
	"user_management/internal/store"  // Store adapter field sets
	"user_management/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// listCacheTTL bounds how stale a cached user listing may get
const listCacheTTL = 60 * time.Second

// CreateUserRequest carries both the user fields and the fields of the
// address created for the user. Required-field and enum checks happen in
// the store adapters so a violation surfaces as a ValidateFail entry.
type CreateUserRequest struct {
	Name           string `json:"name"`            // Display name
	Email          string `json:"email"`           // Unique email
	Password       string `json:"password"`        // Plaintext password
	Role           string `json:"role"`            // Role enum value
	Country        string `json:"country"`         // Country enum value
	DonationActive bool   `json:"donation_active"` // Whether donations are active
	Division       string `json:"division"`        // Address division
	District       string `json:"district"`        // Address district
	Township       string `json:"township"`        // Address township
	StreetAddress  string `json:"street_address"`  // Address street address
}

// UpdateUserRequest is CreateUserRequest plus the id of the address to
// replace. AddressID is typed loosely so a non-integer value maps to a
// field-level validation error instead of a bare bind failure.
type UpdateUserRequest struct {
	AddressID      any    `json:"address_id"`      // Owned address id, integer expected
	Name           string `json:"name"`            // Display name
	Email          string `json:"email"`           // Unique email
	Password       string `json:"password"`        // Plaintext password
	Role           string `json:"role"`            // Role enum value
	Country        string `json:"country"`         // Country enum value
	DonationActive bool   `json:"donation_active"` // Whether donations are active
	Division       string `json:"division"`        // Address division
	District       string `json:"district"`        // Address district
	Township       string `json:"township"`        // Address township
	StreetAddress  string `json:"street_address"`  // Address street address
}

func (r *CreateUserRequest) userFields(addressID uint) store.UserFields {
	return store.UserFields{
		Name:           r.Name,
		Email:          r.Email,
		AddressID:      addressID,
		Password:       r.Password,
		Role:           r.Role,
		Country:        r.Country,
		DonationActive: r.DonationActive,
	}
}

func (r *CreateUserRequest) addressFields() store.AddressFields {
	return store.AddressFields{
		Division:      r.Division,
		District:      r.District,
		Township:      r.Township,
		StreetAddress: r.StreetAddress,
		Type:          "user",
	}
}

func (r *UpdateUserRequest) userFields(addressID uint) store.UserFields {
	return store.UserFields{
		Name:           r.Name,
		Email:          r.Email,
		AddressID:      addressID,
		Password:       r.Password,
		Role:           r.Role,
		Country:        r.Country,
		DonationActive: r.DonationActive,
	}
}

func (r *UpdateUserRequest) addressFields() store.AddressFields {
	return store.AddressFields{
		Division:      r.Division,
		District:      r.District,
		Township:      r.Township,
		StreetAddress: r.StreetAddress,
		Type:          "user",
	}
}

// parsePathID parses the {id} path segment
func parsePathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errs.Respond(c, errs.ValidateFail("user_id", "user id must be an integer"))
		return 0, false
	}
	return uint(id), true
}

// parseAddressID coerces the loosely typed address_id body value into an
// integer id, mirroring an integer cast of either a number or a numeric
// string
func parseAddressID(v any) (uint, bool) {
	switch value := v.(type) {
	case float64:
		if value < 0 {
			return 0, false
		}
		return uint(value), true
	case string:
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(id), true
	default:
		return 0, false
	}
}

// listCacheKey builds the cache key for one page of a filtered listing
func listCacheKey(page, role, country string) string {
	return "users:page=" + page + ":role=" + role + ":country=" + country
}

// userCacheKey builds the cache key for a single user
func userCacheKey(id uint) string {
	return "user:" + strconv.Itoa(int(id))
}

// invalidateUserCaches drops the cached listing pages plus, when id is
// non-zero, the cached single user
func invalidateUserCaches(c *gin.Context, rdb *redis.Client, id uint) {
	ctx := c.Request.Context()
	_ = utils.DeleteCachePattern(ctx, rdb, "users:page=*")
	if id != 0 {
		_ = utils.DeleteCache(ctx, rdb, userCacheKey(id))
	}
}

// GetAllUsersHandler returns one page of users with the filtered total
// count, optionally filtered by role and country
func GetAllUsersHandler(users UserStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageStr := c.DefaultQuery("page", "1")
		role := c.Query("role")
		country := c.Query("country")
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = 1 // Fall back to the first page on a bad page value
		}
		ctx := c.Request.Context()
		cacheKey := listCacheKey(pageStr, role, country)
		var cached struct {
			Count int64         `json:"count"` // Filtered total count
			Users []domain.User `json:"users"` // One page of users
		}
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": cached.Count, "users": cached.Users}})
			return
		}
		list, count, err := users.GetAll(ctx, page, role, country)
		if err != nil {
			logrus.WithError(err).Error("Fail to get all users")
			errs.Respond(c, err)
			return
		}
		logrus.Info("Get all users")
		cached.Count = count
		cached.Users = list
		_ = utils.SetCache(ctx, rdb, cacheKey, cached, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count, "users": list}})
	}
}

// GetUserByIDHandler returns a single user with its address
func GetUserByIDHandler(users UserStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePathID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var cached domain.User
		if found, err := utils.GetCache(ctx, rdb, userCacheKey(id), &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": cached}})
			return
		}
		user, err := users.GetByID(ctx, id)
		if err != nil {
			logrus.WithField("user_id", id).Error("Fail to get user")
			errs.Respond(c, err)
			return
		}
		logrus.WithField("user_id", id).Info("Get user")
		_ = utils.SetCache(ctx, rdb, userCacheKey(id), user, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
	}
}

// CreateUserHandler creates the address row, then the user row referencing
// it, inside one transaction, and returns the re-fetched user. A failure
// in either step rolls the whole write back.
func CreateUserHandler(users UserStore, atomic Atomic, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errs.Respond(c, errs.RequestDataEmpty())
			return
		}
		ctx := c.Request.Context()
		var userID uint
		err := atomic(ctx, func(u UserStore, a AddressStore) error {
			addressID, err := a.Create(ctx, req.addressFields())
			if err != nil {
				return err
			}
			userID, err = u.Create(ctx, req.userFields(addressID))
			return err
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_name": req.Name, "error": err.Error()}).Error("Create user fail")
			errs.Respond(c, err)
			return
		}
		logrus.WithField("user_name", req.Name).Info("Create user success")
		invalidateUserCaches(c, rdb, 0)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			errs.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
	}
}

// UpdateUserHandler replaces the user's address row, then the user row,
// inside one transaction. The user step only runs when the address step
// reported success; the reported status is that of the user step.
func UpdateUserHandler(atomic Atomic, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePathID(c)
		if !ok {
			return
		}
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errs.Respond(c, errs.RequestDataEmpty())
			return
		}
		addressID, ok := parseAddressID(req.AddressID)
		if !ok {
			logrus.WithField("user_id", id).Error("Value error for address id")
			errs.Respond(c, errs.ValidateFail("address_id", "address_id must be an integer"))
			return
		}
		ctx := c.Request.Context()
		status := false
		err := atomic(ctx, func(u UserStore, a AddressStore) error {
			updated, err := a.UpdateByID(ctx, addressID, req.addressFields())
			if err != nil {
				return err
			}
			if updated {
				status, err = u.UpdateByID(ctx, id, req.userFields(addressID))
			}
			return err
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("Fail to update user")
			errs.Respond(c, err)
			return
		}
		logrus.WithField("user_id", id).Info("Success user update")
		invalidateUserCaches(c, rdb, id)
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

// DeleteUserHandler deletes the user row, then its owned address row,
// inside one transaction. The reported status is that of the address step.
func DeleteUserHandler(atomic Atomic, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePathID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		status := false
		err := atomic(ctx, func(u UserStore, a AddressStore) error {
			user, err := u.GetByID(ctx, id)
			if err != nil {
				return err
			}
			deleted, err := u.DeleteByID(ctx, id)
			if err != nil {
				return err
			}
			if deleted {
				status, err = a.DeleteByID(ctx, user.AddressID)
			}
			return err
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Error("Fail to delete user")
			errs.Respond(c, err)
			return
		}
		logrus.WithField("user_id", id).Info("Delete user")
		invalidateUserCaches(c, rdb, id)
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

// SearchUsersHandler returns users whose name or email contains the query
func SearchUsersHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		list, err := users.Search(c.Request.Context(), query)
		if err != nil {
			logrus.WithField("query", query).Error("Fail to search user")
			errs.Respond(c, err)
			return
		}
		logrus.WithField("query", query).Info("Search user")
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}
