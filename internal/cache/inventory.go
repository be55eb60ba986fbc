package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CustomerKeyPrefix    = "customer:%d"
	CommunityListKey     = "communities:list"
	CommunityPostsPrefix = "community:%d:posts"
)

const (
	CustomerTTL      = 5 * time.Minute
	CommunityListTTL = 10 * time.Minute
	PostsListTTL     = 2 * time.Minute
)

func CustomerKey(customerID uint) string {
	return fmt.Sprintf(CustomerKeyPrefix, customerID)
}

func CommunityPostsKey(communityID uint) string {
	return fmt.Sprintf(CommunityPostsPrefix, communityID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateCustomer(ctx context.Context, customerID uint) {
	Invalidate(ctx, CustomerKey(customerID))
}

func InvalidateCommunityList(ctx context.Context) {
	Invalidate(ctx, CommunityListKey)
}

func InvalidateCommunityPosts(ctx context.Context, communityID uint) {
	Invalidate(ctx, CommunityPostsKey(communityID))
}
