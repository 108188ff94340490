package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the front page listing every post.
	RouteRoot = "/"
	// RouteRegister is the sign-up route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteAbout is the about page.
	RouteAbout = "/about"
	// RouteContact is the contact page.
	RouteContact = "/contact"
	// RouteHealth is the JSON health check.
	RouteHealth = "/health"
	// RouteStatic is the prefix for embedded assets.
	RouteStatic = "/static"
	// RouteRobots and RouteSitemap are fetched by crawlers.
	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RoutePost shows a post and takes comments.
	RoutePost = "/post"
	// RouteNewPost creates a post.
	RouteNewPost = "/new-post"
	// RouteEditPost edits a post.
	RouteEditPost = "/edit-post"
	// RouteDeletePost deletes a post.
	RouteDeletePost = "/delete"
	// RouteDeleteComment deletes a comment.
	RouteDeleteComment = "/delete-comment"

	// RoutePostID is the post ID route pattern.
	RoutePostID = RoutePost + RouteParamID
	// RouteEditPostID is the edit post ID route pattern.
	RouteEditPostID = RouteEditPost + RouteParamID
	// RouteDeletePostID is the delete post ID route pattern.
	RouteDeletePostID = RouteDeletePost + RouteParamID
	// RouteDeleteCommentID is the delete comment ID route pattern.
	RouteDeleteCommentID = RouteDeleteComment + RouteParamID
)

const (
	redirectPostID         = RoutePost + "/%d"
	redirectPostIDComments = redirectPostID + "#comments"
	redirectRegister       = RouteRegister
)

// Template names.
const (
	tmplIndex         = "index"
	tmplPost          = "post"
	tmplAbout         = "about"
	tmplContact       = "contact"
	tmplNotFound      = "not_found"
	tmplLogin         = "auth/login"
	tmplRegister      = "auth/register"
	tmplPostForm      = "admin/post_form"
	tmplConfirmDelete = "admin/confirm_delete"
)

// Error codes accepted by the register page in its "error" query parameter.
// Only these fixed codes travel in URLs; the text shown is looked up here.
const errorNoSuchUser = "no_such_user"

var registerErrorMessages = map[string]string{
	errorNoSuchUser: "That email is not registered yet. Sign up below.",
}
