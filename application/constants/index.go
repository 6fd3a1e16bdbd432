package constants

// campuspass response codes
// these consist of 4 digit numbers
//
// the 1st 3 are randomly generated but represent specific scenarios
// 4th indicates if the response requires user interaction through a dialog box. 0 means it does not require. 1 means it requires.

var SESSION_STARTED uint = 3120            // show the ID card prompt and begin polling session status
var SESSION_ALREADY_ACTIVE uint = 3131     // ask the user to reset the running session before starting another
var IDENTIFIER_UNKNOWN uint = 4210         // tell the user the scanned ID is not in the registry
var VERIFICATION_SUCCEEDED uint = 9310     // show the verified student's name and department
var VERIFICATION_FAILED uint = 4321        // offer a retry via session reset
var NO_ACTIVE_SESSION uint = 4140          // prompt the user to start a verification session

var STUDENT_ID_LENGTH = 7

var SUPPORT_EMAIL = "help@campuspass.io"
