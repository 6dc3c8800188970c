package api

import (
	"reflect"

	"github.com/filecoin-project/go-jsonrpc/auth"
)

const (
	// When changing these, update the permission tags in struct.go too

	PermRead  auth.Permission = "read" // default
	PermWrite auth.Permission = "write"
	PermAdmin auth.Permission = "admin" // Manage permissions, fund the wallet
)

var AllPermissions = []auth.Permission{PermRead, PermWrite, PermAdmin}
var DefaultPerms = []auth.Permission{PermRead}

func permissionedProxies(in, out interface{}) {
	outs := GetInternalStructs(out)
	for _, o := range outs {
		auth.PermissionedProxy(AllPermissions, DefaultPerms, in, o)
	}
}

func PermissionedVaultAPI(a Vault) Vault {
	var out VaultStruct
	permissionedProxies(a, &out)
	return &out
}

// GetInternalStructs returns pointers to every Internal field of the proxy
// struct behind ptr, including those of embedded proxy structs. Nested
// Internal fields inside an Internal struct are not descended into.
func GetInternalStructs(ptr interface{}) []interface{} {
	return getInternalStructs(reflect.ValueOf(ptr).Elem())
}

func getInternalStructs(rv reflect.Value) []interface{} {
	var out []interface{}

	internal := rv.FieldByName("Internal")
	if internal.IsValid() {
		out = append(out, internal.Addr().Interface())
	}

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Type().Field(i)
		if !field.Anonymous || field.Type.Kind() != reflect.Struct {
			continue
		}
		out = append(out, getInternalStructs(rv.Field(i))...)
	}

	return out
}
