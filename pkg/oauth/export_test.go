package oauth

import "golang.org/x/oauth2"

// Test hooks for pointing providers at httptest servers.

func SetGoogleUserinfoURL(g *Google, url string) { g.userinfoURL = url }

func SetGitHubAPIBase(g *GitHub, base string) { g.apiBase = base }

func SetGoogleEndpoint(g *Google, ep oauth2.Endpoint) { g.conf.Endpoint = ep }

func SetGitHubEndpoint(g *GitHub, ep oauth2.Endpoint) { g.conf.Endpoint = ep }
