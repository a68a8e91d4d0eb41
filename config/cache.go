// syndicare/config/cache.go
package config

import "fmt"

// UserCacheKey is the Redis key holding the cached auth data of a user.
func UserCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:data", userID)
}
