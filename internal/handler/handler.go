// Package handler is the HTTP layer of the meal planner API.
//
// Each endpoint is a typed function taking a bound, validated request
// struct. Handle and its variants adapt these functions to echo, adding
// request logging and New Relic attributes. Business rules stay in package
// service.
package handler
