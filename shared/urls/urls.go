package urls

import (
	neturl "net/url"
	"sort"

	"github.com/samber/lo"

	"github.com/wranglebase/wranglebase/shared/constants"
)

const actionParam = "action"

// Home builds the home page URL.
func Home(basePath string, params ...map[string]string) string {
	return Build(basePath, constants.ActionHome, params...)
}

// Login builds the login page URL.
func Login(basePath string, params ...map[string]string) string {
	return Build(basePath, constants.ActionLogin, params...)
}

// Signup builds the signup page URL.
func Signup(basePath string, params ...map[string]string) string {
	return Build(basePath, constants.ActionSignup, params...)
}

// Logout builds the logout action URL.
func Logout(basePath string, params ...map[string]string) string {
	return Build(basePath, constants.ActionLogout, params...)
}

// TableView builds the table view URL for the given table.
func TableView(basePath, table string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})
	p["table"] = table
	return Build(basePath, constants.ActionTableView, p)
}

// TableCreate builds the create-table action URL.
func TableCreate(basePath string, params ...map[string]string) string {
	return Build(basePath, constants.ActionTableCreate, params...)
}

// RowInsert builds the insert action URL for the given table.
func RowInsert(basePath, table string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})
	p["table"] = table
	return Build(basePath, constants.ActionRowInsert, p)
}

// RowUpdate builds the update action URL for the given table.
func RowUpdate(basePath, table string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})
	p["table"] = table
	return Build(basePath, constants.ActionRowUpdate, p)
}

// RowDelete builds the delete action URL for the given table.
func RowDelete(basePath, table string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})
	p["table"] = table
	return Build(basePath, constants.ActionRowDelete, p)
}

// Build constructs a URL like: basePath?action=<action>&k=v...
// Keys are sorted for stable output, values are URL-escaped.
func Build(basePath, action string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})

	if basePath == "" || basePath[0] != '/' {
		basePath = "/" + basePath
	}
	q := neturl.Values{}
	q.Set(actionParam, action)
	if len(p) > 0 {
		keys := make([]string, 0, len(p))
		for k := range p {
			if k == "" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			q.Set(k, p[k])
		}
	}
	enc := q.Encode()
	if enc == "" {
		return basePath
	}
	return basePath + "?" + enc
}
